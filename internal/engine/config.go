package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/irn-edu/timetable-api/internal/models"
)

var validate = validator.New()

// Config is the typed, validated form of the run settings. Every run builds
// its timeslot catalog from these four values.
type Config struct {
	Days         []string     `validate:"required,min=1"`
	DayStart     models.Clock `validate:"gte=0"`
	DayEnd       models.Clock `validate:"gt=0"`
	BlockMinutes int          `validate:"required,gt=0"`
}

// Validate checks field-level constraints plus the cross-field invariants
// the tags cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid schedule config: %w", err)
	}
	if c.DayStart >= c.DayEnd {
		return fmt.Errorf("day start %s must be before day end %s", c.DayStart, c.DayEnd)
	}
	if c.BlockMinutes > models.MinutesBetween(c.DayStart, c.DayEnd) {
		return fmt.Errorf("block length %d exceeds the %d minute day span", c.BlockMinutes, models.MinutesBetween(c.DayStart, c.DayEnd))
	}
	for _, day := range c.Days {
		if day == "" {
			return fmt.Errorf("day labels must be non-empty")
		}
	}
	return nil
}
