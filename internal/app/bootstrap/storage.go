// internal/app/bootstrap/storage.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/pantry/storage"
)

// buildStorage constructs the file storage backend selected by config.
// Uploaded CVs and documents go through this store; local storage serves
// files straight off disk, S3 storage signs CloudFront URLs.
func buildStorage(appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "local":
		return storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
	case "s3":
		return storage.NewS3(context.Background(), storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
	default:
		return nil, fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}
}
