package domain

import (
	"bytes"
	"fmt"
	"time"
)

// the payment backend emits naive ISO timestamps without a zone
const naiveLayout = "2006-01-02T15:04:05.999999999"

type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	for _, layout := range []string{time.RFC3339Nano, naiveLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return t.Time.MarshalJSON()
}
