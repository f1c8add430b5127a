package qa

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/soksol/playprep/internal/config"
)

// Check names, in default registration order.
const (
	CheckMetadata    = "metadata"
	CheckPermissions = "permissions"
	CheckIcons       = "icons"
	CheckStore       = "store"
	CheckBuild       = "build"
	CheckSecurity    = "security"
	CheckCompliance  = "compliance"
)

// CheckNames lists the default check names in registration order.
var CheckNames = []string{
	CheckMetadata,
	CheckPermissions,
	CheckIcons,
	CheckStore,
	CheckBuild,
	CheckSecurity,
	CheckCompliance,
}

// DefaultChecks returns the full battery configured from cfg.
func DefaultChecks(cfg config.QAConfig, inspector ImageInspector, logger *slog.Logger) []Check {
	if inspector == nil {
		inspector = NoInspector{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return []Check{
		&MetadataCheck{IDPrefix: cfg.ApplicationIDPrefix, MinTargetSDK: cfg.MinTargetSDK},
		&PermissionsCheck{Allowed: cfg.AllowedPermissions, Required: cfg.RequiredPermission},
		&IconsCheck{Icons: cfg.Icons, Inspector: inspector, Logger: logger},
		&StoreCheck{MinDocumentBytes: cfg.MinDocumentBytes, MinScreenshots: cfg.MinScreenshots},
		&BuildCheck{MinArtifactBytes: cfg.MinArtifactBytes},
		&SecurityCheck{},
		&ComplianceCheck{Sections: cfg.PrivacySections},
	}
}

// stat returns the file info for path, or nil when it does not exist.
// Any other error is returned as is.
func stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func humanMiB(n int64) int64 {
	return n / 1024 / 1024
}
