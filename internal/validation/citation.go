package validation

import "github.com/cortexmemory/cortex/internal/types"

// FileInfo is what a FileChecker reports about a file currently on disk.
type FileInfo struct {
	ContentHash string
	TotalLines  int
	// HasContentHash and HasTotalLines distinguish "unknown" from "zero",
	// since a checker that can't compute a hash or line count shouldn't
	// fail a citation it simply has no opinion about.
	HasContentHash bool
	HasTotalLines  bool
}

// FileChecker reports the current state of path, or (FileInfo{}, false) if
// it no longer exists.
type FileChecker func(path string) (FileInfo, bool)

// RenameDetector reports the new path a since-removed file was renamed to,
// if any (e.g. via a git-mv history lookup).
type RenameDetector func(path string) (string, bool)

// CitationDetail is the validation outcome for a single file link.
type CitationDetail struct {
	Path             string
	Exists           bool
	ContentHashMatch *bool
	LineNumbersValid *bool
	RenamedTo        *string
}

// CitationResult is the citation dimension's score plus per-link detail.
type CitationResult struct {
	Score         float64
	HealingActions []HealingAction
	Details       []CitationDetail
}

// ValidateCitations checks every file link in m: does the file still
// exist, does its content hash still match what was cited, are the cited
// line numbers still in range. A memory with no file links scores 1.0 —
// there is nothing to have gone stale. Renamed files (detected via
// renameDetector) count as valid, since the citation can be healed rather
// than discarded.
func ValidateCitations(m *types.Memory, checkFile FileChecker, detectRename RenameDetector) CitationResult {
	if len(m.LinkedFiles) == 0 {
		return CitationResult{Score: 1.0}
	}

	var (
		validCount int
		actions    []HealingAction
		details    []CitationDetail
	)

	for _, link := range m.LinkedFiles {
		info, exists := checkFile(link.Path)
		if !exists {
			detail := CitationDetail{Path: link.Path, Exists: false}
			if newPath, renamed := detectRename(link.Path); renamed {
				detail.RenamedTo = &newPath
				actions = append(actions, HealingAction{
					Type:        HealingCitationUpdate,
					Description: "file renamed: " + link.Path + " -> " + newPath,
				})
				validCount++ // healable, counts as valid
			} else {
				actions = append(actions, HealingAction{
					Type:        HealingConfidenceAdjust,
					Description: "file not found: " + link.Path,
				})
			}
			details = append(details, detail)
			continue
		}

		detail := CitationDetail{Path: link.Path, Exists: true}
		hashOK := true
		if link.ContentHash != "" && info.HasContentHash {
			matches := link.ContentHash == info.ContentHash
			detail.ContentHashMatch = &matches
			hashOK = matches
			if !matches {
				actions = append(actions, HealingAction{
					Type:        HealingEmbeddingRefresh,
					Description: "content hash drift in " + link.Path + ": re-embed memory",
				})
			}
		}

		linesOK := true
		if link.LineStart > 0 && info.HasTotalLines {
			valid := link.LineStart <= info.TotalLines
			detail.LineNumbersValid = &valid
			linesOK = valid
			if !valid {
				actions = append(actions, HealingAction{
					Type:        HealingCitationUpdate,
					Description: "cited line exceeds current file length in " + link.Path,
				})
			}
		}

		if hashOK && linesOK {
			validCount++
		}
		details = append(details, detail)
	}

	return CitationResult{
		Score:          float64(validCount) / float64(len(m.LinkedFiles)),
		HealingActions: actions,
		Details:        details,
	}
}
