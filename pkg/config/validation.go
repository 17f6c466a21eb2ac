package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fileflow/fileflow/pkg/transfer"
)

// Validate checks the configuration against its struct validation tags.
// Nested structs are validated recursively.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				return fmt.Errorf("invalid config field %s: failed %q validation (value: %v)",
					fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value())
			}
		}
		return err
	}

	if err := validateTransfer(&cfg.Transfer); err != nil {
		return err
	}

	return nil
}

// validateTransfer checks cross-field constraints the tag language
// cannot express.
func validateTransfer(cfg *transfer.Config) error {
	if cfg.MaxBlockSize == 0 {
		return fmt.Errorf("transfer.max_block_size must be greater than zero")
	}
	if cfg.MaxBlocksPerFile <= 0 {
		return fmt.Errorf("transfer.max_blocks_per_file must be greater than zero")
	}
	if cfg.BlockTTL <= 0 || cfg.MetaTTL <= 0 {
		return fmt.Errorf("transfer TTLs must be greater than zero")
	}
	return nil
}
