package providers

import (
	"errors"
	"fmt"
	"talentpay/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	switch c.conf.Storage.Driver {
	case "postgres":
		if c.conf.Database.Url == "" {
			return errors.New("invalid config: database.url is required for the postgres driver")
		}
	case "file":
		if c.conf.Storage.FilePath == "" {
			return errors.New("invalid config: storage.filePath is required for the file driver")
		}
		if c.conf.Storage.SaveInterval <= 0 {
			return errors.New("invalid config: storage.saveInterval must be positive")
		}
	}

	if c.conf.Ledger.Enabled && c.conf.Ledger.Url == "" {
		return errors.New("invalid config: ledger.url is required when the ledger is enabled")
	}
	if c.conf.Ledger.RetryMax < 0 {
		return errors.New("invalid config: ledger.retryMax must not be negative")
	}

	for name, tiers := range c.conf.Discounts.Tiers {
		if err := validateTiers(tiers); err != nil {
			return fmt.Errorf("invalid config: discounts.tiers.%s: %w", name, err)
		}
	}

	return nil
}

// validateTiers requires ascending bounds with the open-ended step, if
// any, in last position.
func validateTiers(tiers []structures.DiscountTier) error {
	prev := 0.0
	for i, t := range tiers {
		if t.Amount < 0 {
			return fmt.Errorf("step %d has a negative amount", i)
		}
		if t.UpTo == 0 {
			if i != len(tiers)-1 {
				return fmt.Errorf("step %d is open-ended but not last", i)
			}
			continue
		}
		if t.UpTo <= prev {
			return fmt.Errorf("step %d bound %.0f is not ascending", i, t.UpTo)
		}
		prev = t.UpTo
	}
	return nil
}
