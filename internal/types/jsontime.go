package types

import "time"

// jsonTimeImpl wraps time.Time so it round-trips through RFC3339 exactly
// once, rather than relying on time.Time's own (Un)MarshalJSON indirectly
// through every alias field.
type jsonTimeImpl time.Time

func (t jsonTimeImpl) Time() time.Time { return time.Time(t) }

func (t jsonTimeImpl) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *jsonTimeImpl) UnmarshalJSON(data []byte) error {
	var tt time.Time
	if err := tt.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = jsonTimeImpl(tt)
	return nil
}
