package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"ppsg-cms/internal/config"
	"ppsg-cms/internal/logger"
	"ppsg-cms/internal/repository"
	"ppsg-cms/internal/telemetry"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

const (
	MediaPageSize   = 24
	MediaPickerSize = 100

	ImageContentType  = "image/jpeg"
	ImageCacheControl = "public, max-age=31536000"
)

type MediaStore interface {
	Insert(ctx context.Context, m *models.Media) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error)
	Rendition(ctx context.Context, id primitive.ObjectID, size models.SizeName) (repository.RawRendition, error)
	List(ctx context.Context, search string, skip, limit int64) ([]models.Media, int64, error)
	Count(ctx context.Context) (int64, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, u models.MediaUpdate) (*models.Media, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Deriver interface {
	Derive(buf []byte) (map[models.SizeName]models.Rendition, error)
}

type RenditionCache interface {
	Get(ctx context.Context, id string, size models.SizeName) ([]byte, bool, error)
	Set(ctx context.Context, id string, size models.SizeName, data []byte) error
	Invalidate(ctx context.Context, id string) error
}

type MediaService struct {
	store       MediaStore
	deriver     Deriver
	cache       RenditionCache
	metrics     *telemetry.Metrics
	maxFiles    int
	maxBytes    int64
	concurrency int
}

type noCache struct{}

func (noCache) Get(context.Context, string, models.SizeName) ([]byte, bool, error) { return nil, false, nil }
func (noCache) Set(context.Context, string, models.SizeName, []byte) error { return nil }
func (noCache) Invalidate(context.Context, string) error { return nil }

func NewMediaService(cfg *config.Config, store MediaStore, deriver Deriver, cache RenditionCache, metrics *telemetry.Metrics) *MediaService {
	if cache == nil {
		cache = noCache{}
	}
	return &MediaService{
		store:       store,
		deriver:     deriver,
		cache:       cache,
		metrics:     metrics,
		maxFiles:    cfg.MaxUploadFiles,
		maxBytes:    cfg.MediaMaxDocumentBytes,
		concurrency: max(cfg.UploadConcurrency, 1),
	}
}

// Upload derives and stores every file concurrently. Each file is its own
// unit: a failed file stores nothing, and files that succeeded stay stored
// even when a sibling fails. The batch fails as a whole if any file does,
// with a *utils.BatchError naming each failure.
func (s *MediaService) Upload(ctx context.Context, files []models.UploadFile) (*models.UploadResult, error) {
	if len(files) == 0 {
		return nil, utils.Validationf("no files uploaded")
	}
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, utils.Validationf("at most %d files can be uploaded at once", s.maxFiles)
	}

	ids := make([]primitive.ObjectID, len(files))
	errs := make([]error, len(files))

	// A plain group: one failure must not cancel siblings mid-write.
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range files {
		g.Go(func() error {
			ids[i], errs[i] = s.storeOne(ctx, files[i])
			return nil
		})
	}
	_ = g.Wait()

	result := &models.UploadResult{IDs: []primitive.ObjectID{}}
	var batch utils.BatchError
	for i, err := range errs {
		if err != nil {
			batch.Failures = append(batch.Failures, &utils.ItemError{Item: files[i].Filename, Err: err})
			result.Failed = append(result.Failed, models.UploadFailure{Filename: files[i].Filename, Error: err.Error()})
			continue
		}
		result.IDs = append(result.IDs, ids[i])
	}

	if len(batch.Failures) > 0 {
		result.Message = fmt.Sprintf("%d of %d file(s) failed to upload", len(batch.Failures), len(files))
		logger.Warn("Media upload batch had failures",
			slog.Int("files", len(files)),
			slog.Int("failed", len(batch.Failures)),
			slog.Int("stored", len(result.IDs)))
		return result, &batch
	}
	result.Message = fmt.Sprintf("%d file(s) uploaded successfully", len(files))
	return result, nil
}

func (s *MediaService) storeOne(ctx context.Context, f models.UploadFile) (primitive.ObjectID, error) {
	mimeType := utils.SniffImageType(f.MimeType, f.Data)
	if !utils.IsValidImageType(mimeType) {
		s.metrics.RecordUpload(ctx, "rejected", 0, 0)
		return primitive.NilObjectID, utils.Validationf("%s is not a supported image (%s)", f.Filename, mimeType)
	}

	start := time.Now()
	sizes, err := s.deriver.Derive(f.Data)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.RecordUpload(ctx, "pipeline_error", 0, elapsed)
		return primitive.NilObjectID, fmt.Errorf("%w: %v", utils.ErrPipeline, err)
	}
	if len(sizes[models.SizeThumbnail].Data) == 0 {
		s.metrics.RecordUpload(ctx, "pipeline_error", 0, elapsed)
		return primitive.NilObjectID, fmt.Errorf("%w: no thumbnail bytes produced", utils.ErrPipeline)
	}

	m := &models.Media{
		ID:               primitive.NewObjectID(),
		OriginalFilename: f.Filename,
		Title:            utils.TitleFromFilename(f.Filename),
		Metadata:         map[string]string{},
		MimeType:         mimeType,
		Sizes:            sizes,
	}

	payload := int64(m.PayloadBytes())
	if payload > s.maxBytes {
		s.metrics.RecordUpload(ctx, "capacity_exceeded", payload, elapsed)
		return primitive.NilObjectID, fmt.Errorf("%w: renditions total %d bytes, limit is %d",
			utils.ErrCapacity, payload, s.maxBytes)
	}

	if err := s.store.Insert(ctx, m); err != nil {
		s.metrics.RecordUpload(ctx, "store_error", payload, elapsed)
		return primitive.NilObjectID, fmt.Errorf("store %s: %w", f.Filename, err)
	}

	// Read back the smallest rendition: a driver that silently coerced the
	// payload would otherwise surface only when the image is first served.
	raw, err := s.store.Rendition(ctx, m.ID, models.SizeThumbnail)
	if err != nil {
		s.metrics.RecordUpload(ctx, "integrity_error", payload, elapsed)
		return m.ID, fmt.Errorf("%w: re-reading %s: %v", utils.ErrIntegrity, m.ID.Hex(), err)
	}
	if !raw.Binary() {
		s.metrics.RecordUpload(ctx, "integrity_error", payload, elapsed)
		logger.Error("Stored thumbnail is not binary",
			slog.String("media_id", m.ID.Hex()),
			slog.Bool("present", raw.Present),
			slog.String("bson_type", raw.Type.String()))
		return m.ID, fmt.Errorf("%w: thumbnail of %s was not stored as binary data", utils.ErrIntegrity, m.ID.Hex())
	}

	s.metrics.RecordUpload(ctx, "stored", payload, elapsed)
	logger.Info("Media stored",
		slog.String("media_id", m.ID.Hex()),
		slog.String("filename", f.Filename),
		slog.Int64("payload_bytes", payload))
	return m.ID, nil
}

// RenditionData is a servable image.
type RenditionData struct {
	Data         []byte
	ContentType  string
	CacheControl string
}

// FetchRendition returns the bytes of one size. A thumbnail request falls
// back to the legacy small rendition when no thumbnail is stored.
func (s *MediaService) FetchRendition(ctx context.Context, id, size string) (*RenditionData, error) {
	name, ok := models.ParseSizeName(size)
	if !ok {
		return nil, utils.NotFoundf("image size %q", size)
	}
	oid, err := ParseID("media", id)
	if err != nil {
		return nil, err
	}

	key := oid.Hex()
	if data, hit, err := s.cache.Get(ctx, key, name); err != nil {
		logger.Warn("Rendition cache read failed", slog.String("media_id", key), slog.String("error", err.Error()))
	} else if hit {
		return servable(data), nil
	}

	for _, stored := range name.FallbackChain() {
		raw, err := s.store.Rendition(ctx, oid, stored)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, utils.NotFoundf("media %s", id)
			}
			return nil, fmt.Errorf("load rendition: %w", err)
		}
		if !raw.Present {
			continue
		}
		if !raw.Binary() {
			return nil, fmt.Errorf("%w: %s rendition of %s is not binary data", utils.ErrIntegrity, stored, id)
		}

		if err := s.cache.Set(ctx, key, name, raw.Data); err != nil {
			logger.Warn("Rendition cache write failed", slog.String("media_id", key), slog.String("error", err.Error()))
		}
		return servable(raw.Data), nil
	}
	return nil, utils.NotFoundf("%s rendition of media %s", name, id)
}

func servable(data []byte) *RenditionData {
	return &RenditionData{Data: data, ContentType: ImageContentType, CacheControl: ImageCacheControl}
}

// List returns one library page, newest first, without payloads.
func (s *MediaService) List(ctx context.Context, search string, page int) (models.Page[models.MediaView], error) {
	page = pageNumber(page)
	items, total, err := s.store.List(ctx, strings.TrimSpace(search), models.Skip(page, MediaPageSize), MediaPageSize)
	if err != nil {
		return models.Page[models.MediaView]{}, fmt.Errorf("list media: %w", err)
	}
	return models.NewPage(views(items), page, MediaPageSize, total), nil
}

// Picker returns the newest records for the admin media chooser.
func (s *MediaService) Picker(ctx context.Context) ([]models.MediaView, error) {
	items, _, err := s.store.List(ctx, "", 0, MediaPickerSize)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return views(items), nil
}

func views(items []models.Media) []models.MediaView {
	out := make([]models.MediaView, len(items))
	for i := range items {
		out[i] = items[i].View()
	}
	return out
}

func (s *MediaService) Get(ctx context.Context, id string) (*models.MediaView, error) {
	oid, err := ParseID("media", id)
	if err != nil {
		return nil, err
	}
	m, err := s.store.GetByID(ctx, oid)
	if err != nil {
		return nil, storeErr("media", id, err)
	}
	v := m.View()
	return &v, nil
}

// UpdateMetadata changes the text fields only. A non-nil metadata map
// replaces the stored one.
func (s *MediaService) UpdateMetadata(ctx context.Context, id string, u models.MediaUpdate) (*models.MediaView, error) {
	oid, err := ParseID("media", id)
	if err != nil {
		return nil, err
	}
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		t := strings.TrimSpace(*p)
		return &t
	}
	u.Title, u.AltText, u.Description = trim(u.Title), trim(u.AltText), trim(u.Description)

	m, err := s.store.UpdateText(ctx, oid, u)
	if err != nil {
		return nil, storeErr("media", id, err)
	}
	v := m.View()
	return &v, nil
}

// Delete removes the record and its renditions. Content that references
// it is left as is.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID("media", id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, oid); err != nil {
		return storeErr("media", id, err)
	}
	if err := s.cache.Invalidate(ctx, oid.Hex()); err != nil {
		logger.Warn("Rendition cache invalidation failed", slog.String("media_id", oid.Hex()), slog.String("error", err.Error()))
	}
	return nil
}

func (s *MediaService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
