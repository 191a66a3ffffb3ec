package campaign

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/infrastructure/storage/minio"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Publish uploads the molecule table, every summary table and the
// prioritization table.  Object keys mirror the paths below data.root.
func (s *serviceImpl) Publish(ctx context.Context) (*minio.PublishReport, error) {
	if s.publisher == nil {
		return nil, errors.InvalidConfig("artifact storage is disabled; set storage.minio.enabled")
	}

	artifacts := []minio.Artifact{
		s.artifact(s.layout.MoleculesCSV, "molecules", ""),
	}
	for _, t := range s.targets.All() {
		path := filepath.Join(s.layout.LogDir(t.Name), docking.SummaryFileName)
		artifacts = append(artifacts, s.artifact(path, "summary", t.Name))
	}
	artifacts = append(artifacts, s.artifact(s.layout.PrioritizationCSV, "prioritization", ""))

	return s.publisher.Publish(ctx, artifacts)
}

func (s *serviceImpl) artifact(path, kind, target string) minio.Artifact {
	key, err := filepath.Rel(s.layout.Root, path)
	if err != nil || strings.HasPrefix(key, "..") {
		key = filepath.Base(path)
	}
	return minio.Artifact{LocalPath: path, Key: filepath.ToSlash(key), Kind: kind, Target: target}
}

//Personal.AI order the ending
