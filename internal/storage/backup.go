// ABOUTME: YAML backup and restore for point collections
// ABOUTME: Portable, versioned format for moving points between machines

package storage

import (
	"fmt"
	"time"

	"github.com/harper/pointedit/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by this program.
const BackupTool = "pointedit"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string        `yaml:"version"`
	ExportedAt time.Time     `yaml:"exported_at"`
	Tool       string        `yaml:"tool"`
	Points     []PointBackup `yaml:"points"`
}

// PointBackup represents a point in the backup format.
type PointBackup struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Label     string  `yaml:"label"`
}

// ExportBackup encodes a collection as a YAML backup.
func ExportBackup(points models.Collection) ([]byte, error) {
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Points:     make([]PointBackup, len(points)),
	}

	for i, p := range points {
		backup.Points[i] = PointBackup{
			Latitude:  p.Location.Lat(),
			Longitude: p.Location.Lng(),
			Label:     p.Label,
		}
	}

	return yaml.Marshal(backup)
}

// ParseBackup decodes and validates a YAML backup.
func ParseBackup(data []byte) (*Backup, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != BackupTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, BackupTool)
	}
	return &backup, nil
}

// Collection converts the backed-up points into a collection, preserving order.
func (b *Backup) Collection() (models.Collection, error) {
	points := make(models.Collection, len(b.Points))
	for i, pb := range b.Points {
		loc := models.NewLocation(pb.Latitude, pb.Longitude)
		if !loc.Finite() {
			return nil, fmt.Errorf("point %d: %w", i+1, models.ErrInvalidLocation)
		}
		points[i] = models.Point{Location: loc, Label: pb.Label}
	}
	return points, nil
}

// ImportBackup decodes a YAML backup into a collection, preserving order.
func ImportBackup(data []byte) (models.Collection, error) {
	backup, err := ParseBackup(data)
	if err != nil {
		return nil, err
	}
	return backup.Collection()
}
