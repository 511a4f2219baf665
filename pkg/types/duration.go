package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var simpleDurationRegExp = regexp.MustCompile(`^(\d+)([dw])$`)

var ErrNotSimpleDuration = errors.New("the given input is not simple duration format, valid format: [1-9][0-9]*[dw]")

// ParseDuration parses the time.ParseDuration format plus the day (3d) and week (1w) units.
func ParseDuration(s string) (time.Duration, error) {
	if matches := simpleDurationRegExp.FindStringSubmatch(s); matches != nil {
		num, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, err
		}

		switch matches[2] {
		case "d":
			return time.Duration(num) * 24 * time.Hour, nil
		case "w":
			return time.Duration(num) * 7 * 24 * time.Hour, nil
		}

		return 0, errors.Wrapf(ErrNotSimpleDuration, "input %q is not a simple duration", s)
	}

	return time.ParseDuration(s)
}

// Duration accepts "5s", "1m30s", "3d", or a number of seconds in the config files.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var o interface{}

	if err := json.Unmarshal(data, &o); err != nil {
		return err
	}

	return d.set(o)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var o interface{}
	if err := value.Decode(&o); err != nil {
		return err
	}

	return d.set(o)
}

func (d *Duration) set(o interface{}) error {
	switch t := o.(type) {
	case string:
		dd, err := ParseDuration(t)
		if err != nil {
			return err
		}

		*d = Duration(dd)

	case float64:
		*d = Duration(int64(t * float64(time.Second)))

	case int:
		*d = Duration(time.Duration(t) * time.Second)

	case int64:
		*d = Duration(time.Duration(t) * time.Second)

	default:
		return fmt.Errorf("unsupported type %T value: %v", t, t)
	}

	return nil
}
