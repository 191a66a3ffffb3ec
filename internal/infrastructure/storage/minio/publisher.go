package minio

import (
	"context"
	"os"

	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Artifact is one local file to publish.
type Artifact struct {
	LocalPath string
	Key       string
	Kind      string
	Target    string
}

// Uploader is implemented by MinIOClient.
type Uploader interface {
	UploadFile(ctx context.Context, localPath, key, contentType string, tags map[string]string) (*UploadResult, error)
}

// PublishReport lists what Publish stored and what it skipped.
type PublishReport struct {
	Uploaded []UploadResult `json:"uploaded" yaml:"uploaded"`
	Missing  []string       `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Publisher uploads campaign tables.
type Publisher struct {
	uploader Uploader
	logger   logging.Logger
}

func NewPublisher(u Uploader, log logging.Logger) *Publisher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Publisher{uploader: u, logger: log}
}

// Publish uploads every artifact whose local file exists.  Missing files are
// listed in the report; the first upload error aborts.
func (p *Publisher) Publish(ctx context.Context, artifacts []Artifact) (*PublishReport, error) {
	report := &PublishReport{}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := os.Stat(a.LocalPath); err != nil {
			if os.IsNotExist(err) {
				report.Missing = append(report.Missing, a.LocalPath)
				p.logger.Warn("artifact not found, skipping", logging.String("path", a.LocalPath))
				continue
			}
			return report, errors.Wrap(err, errors.CodeIO, "stat artifact").WithDetail("path=" + a.LocalPath)
		}

		tags := map[string]string{"kind": a.Kind}
		if a.Target != "" {
			tags["target"] = a.Target
		}
		res, err := p.uploader.UploadFile(ctx, a.LocalPath, a.Key, "text/csv", tags)
		if err != nil {
			return report, err
		}
		report.Uploaded = append(report.Uploaded, *res)
		p.logger.Info("published artifact", logging.String("key", res.ObjectKey), logging.Int64("size", res.Size))
	}
	return report, nil
}

//Personal.AI order the ending
