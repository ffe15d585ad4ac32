package logging

import (
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

// FileConfig configures the rotating file sink. Zero values of MaxBytes and
// BackupCount take the package defaults; the zero Level is LevelDebug.
type FileConfig struct {
	Path        string `validate:"required"`
	Level       Level  `validate:"min=0,max=7"`
	MaxBytes    int64  `validate:"gt=0"`
	BackupCount int    `validate:"gt=0"`
	// Compress gzips rotated archives.
	Compress bool
	// MaxAgeDays > 0 switches rotation to lumberjack, which also prunes
	// archives older than this many days. Sizes are then rounded up to
	// whole megabytes and archives carry lumberjack's timestamp names.
	MaxAgeDays int `validate:"gte=0"`
}

func (c FileConfig) withDefaults() FileConfig {
	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.BackupCount == 0 {
		c.BackupCount = DefaultBackupCount
	}
	return c
}

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *FileConfig) error {
	const op errors.Op = "logging.validateConfig"
	if cfg == nil {
		return errors.New(op).Msg(errMsgNilFileConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	return nil
}
