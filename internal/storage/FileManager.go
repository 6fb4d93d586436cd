package storage

import (
	"fmt"
	"os"
	"talentpay/internal/models"
	"talentpay/internal/providers"
	"talentpay/internal/storage/interfaces"

	json "github.com/goccy/go-json"
)

// Snapshotter is a store that can be dumped to and loaded from a
// models.Storage envelope.
type Snapshotter interface {
	Snapshot() *models.Storage
	Restore(snapshot *models.Storage)
}

type FileManager struct {
	store      Snapshotter
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store Snapshotter, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

// SaveToFile writes a compressed snapshot next to fileName and renames it
// into place, so readers never see a partial file.
func (f *FileManager) SaveToFile(fileName string) (*models.Storage, error) {
	snapshot := f.store.Snapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return nil, err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return nil, err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return nil, err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return nil, err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return nil, err
	}

	return snapshot, os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the store from fileName. A missing file is a fresh
// install and not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeStorage, "No snapshot at %s, starting empty", fileName)
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	var snapshot models.Storage
	if err := json.Unmarshal(decompressedData, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Version > models.StorageVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", snapshot.Version, models.StorageVersion)
	}

	f.store.Restore(&snapshot)
	f.logger.Infof(providers.TypeStorage, "Restored %d talents and %d periods from %s", len(snapshot.Talents), len(snapshot.Periods), fileName)
	return nil
}
