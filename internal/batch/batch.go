// Package batch runs a share request for every recipient in the feed,
// strictly in order, stopping at the first failure.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/mapper"
	"github.com/JaimeStill/courier/internal/recipients"
	"github.com/JaimeStill/courier/internal/remote"
	"github.com/JaimeStill/courier/internal/shares"
	"github.com/JaimeStill/courier/internal/templates"
	"github.com/JaimeStill/courier/pkg/formatting"
	"github.com/JaimeStill/courier/pkg/storage"
)

const pdfContentType = "application/pdf"

// Runner sequences the remote calls of a batch. Rows share one scratch file,
// so a Runner must not process rows concurrently.
type Runner struct {
	template config.TemplateConfig
	batch    config.BatchConfig
	fileName string
	remote   remote.System
	storage  storage.System
	mapper   *mapper.Mapper
	logger   *slog.Logger
}

// New creates a Runner from cfg and its collaborators.
func New(
	cfg *config.Config,
	svc remote.System,
	store storage.System,
	m *mapper.Mapper,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		template: cfg.Template,
		batch:    cfg.Batch,
		fileName: cfg.Storage.FileName,
		remote:   svc,
		storage:  store,
		mapper:   m,
		logger:   logger.With("system", "batch"),
	}
}

// Run fetches the template once and dispatches a share for each row in order.
// The first failing row aborts the run; its error names the row and recipient.
func (r *Runner) Run(ctx context.Context, rows []recipients.Row) error {
	logger := r.logger.With("run_id", uuid.New())
	logger.InfoContext(ctx, "batch starting", "template_id", r.template.ID, "rows", len(rows))

	tpl, err := r.remote.FetchTemplate(ctx, r.template.ID)
	if err != nil {
		return err
	}

	defer r.cleanup(ctx, logger)

	for i, row := range rows {
		n := i + 1
		if err := r.process(ctx, logger.With("row", n, "recipient", row.Recipient()), tpl, row); err != nil {
			return fmt.Errorf("row %d (%s): %w", n, row.Recipient(), err)
		}
	}

	logger.InfoContext(ctx, "batch complete", "rows", len(rows))
	return nil
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, tpl *templates.Template, row recipients.Row) error {
	res, err := r.mapper.Map(tpl, row)
	if err != nil {
		return err
	}

	body, err := r.remote.DownloadFile(ctx, string(tpl.File))
	if err != nil {
		return err
	}
	_, size, err := r.storage.Save(ctx, r.fileName, body)
	body.Close()
	if err != nil {
		return err
	}

	f, err := r.storage.Open(ctx, r.fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	pages, err := pageCount(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", r.fileName, err)
	}

	upload, err := r.remote.UploadFile(ctx, r.fileName, pdfContentType, f)
	if err != nil {
		return err
	}

	doc, err := r.remote.CreateDocument(ctx, r.batch.Title(res.Recipient), upload.File.FileID)
	if err != nil {
		return err
	}

	payload := shares.Assemble(
		doc.DocumentID(),
		res.Targets,
		res.Annotations,
		res.Signatures,
		res.SignatureFields,
	)
	if err := r.remote.CreateShare(ctx, payload); err != nil {
		return err
	}

	logger.InfoContext(
		ctx, "share created",
		"document_id", payload.ID,
		"participants", len(payload.Data),
		"pages", pages,
		"size", formatting.FormatBytes(size),
	)
	return nil
}

func (r *Runner) cleanup(ctx context.Context, logger *slog.Logger) {
	if err := r.storage.Remove(ctx, r.fileName); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.WarnContext(ctx, "scratch file cleanup failed", "file", r.fileName, "error", err)
	}
}
