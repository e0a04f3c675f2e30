package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

var (
	ErrSongNotFound         = errors.New("song not found")
	ErrUnknownAssetCategory = errors.New("unknown asset category")
	ErrUploadTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// Asset categories a repertoire entry can carry.
const (
	AssetSheetMusic = "sheet_music"
	AssetAudio      = "audio"
	AssetMidi       = "midi"
)

// FileUploader abstracts asset storage destinations.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// SongService exposes repertoire use cases including asset uploads.
type SongService interface {
	List(ctx context.Context, filter repository.SongFilter) ([]dto.SongResponse, error)
	Get(ctx context.Context, id uint) (dto.SongResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.SongCreateRequest) (dto.SongResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.SongUpdateRequest) (dto.SongResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	UploadAsset(ctx context.Context, actor Actor, songID uint, category string, file *multipart.FileHeader) (dto.SongResponse, error)
}

type songService struct {
	songs     repository.SongRepository
	sheets    FileUploader
	audio     FileUploader
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	maxSize   int64
}

// NewSongService builds the repertoire service. Sheet music goes to the
// sheets uploader; audio and MIDI assets go to the audio uploader.
func NewSongService(songs repository.SongRepository, sheets, audio FileUploader, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) SongService {
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &songService{
		songs:     songs,
		sheets:    sheets,
		audio:     audio,
		validator: validate,
		logger:    logger.With().Str("component", "song_service").Logger(),
		tracer:    otel.Tracer("github.com/chorushq/chorus-api/internal/service/song"),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *songService) List(ctx context.Context, filter repository.SongFilter) ([]dto.SongResponse, error) {
	songs, err := s.songs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewSongResponseSlice(songs), nil
}

func (s *songService) Get(ctx context.Context, id uint) (dto.SongResponse, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SongResponse{}, ErrSongNotFound
		}
		return dto.SongResponse{}, err
	}

	return dto.NewSongResponse(song), nil
}

func (s *songService) Create(ctx context.Context, actor Actor, payload dto.SongCreateRequest) (dto.SongResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.SongResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SongResponse{}, err
	}

	song := models.Song{
		Title:           payload.Title,
		Composer:        payload.Composer,
		Arranger:        payload.Arranger,
		Genre:           payload.Genre,
		ProductionID:    payload.ProductionID,
		VoiceParts:      datatypes.NewJSONSlice(payload.VoiceParts),
		DurationSeconds: payload.DurationSeconds,
		Difficulty:      payload.Difficulty,
		Lyrics:          payload.Lyrics,
		Notes:           payload.Notes,
		CreatedBy:       actor.ID,
	}

	if err := s.songs.Create(ctx, &song); err != nil {
		return dto.SongResponse{}, err
	}

	s.logger.Info().Uint("song_id", song.ID).Str("title", song.Title).Msg("song added to repertoire")
	return dto.NewSongResponse(song), nil
}

func (s *songService) Update(ctx context.Context, actor Actor, id uint, payload dto.SongUpdateRequest) (dto.SongResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.SongResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SongResponse{}, err
	}

	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SongResponse{}, ErrSongNotFound
		}
		return dto.SongResponse{}, err
	}

	if payload.Title != nil {
		song.Title = *payload.Title
	}
	if payload.Composer != nil {
		song.Composer = *payload.Composer
	}
	if payload.Arranger != nil {
		song.Arranger = *payload.Arranger
	}
	if payload.Genre != nil {
		song.Genre = *payload.Genre
	}
	if payload.ProductionID != nil {
		song.ProductionID = payload.ProductionID
	}
	if payload.VoiceParts != nil {
		song.VoiceParts = datatypes.NewJSONSlice(*payload.VoiceParts)
	}
	if payload.DurationSeconds != nil {
		song.DurationSeconds = payload.DurationSeconds
	}
	if payload.Difficulty != nil {
		song.Difficulty = payload.Difficulty
	}
	if payload.Lyrics != nil {
		song.Lyrics = *payload.Lyrics
	}
	if payload.Notes != nil {
		song.Notes = *payload.Notes
	}

	if err := s.songs.Update(ctx, &song); err != nil {
		return dto.SongResponse{}, err
	}

	return dto.NewSongResponse(song), nil
}

func (s *songService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.songs.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSongNotFound
		}
		return err
	}

	s.logger.Info().Uint("song_id", id).Msg("song removed from repertoire")
	return nil
}

// UploadAsset validates and stores a sheet-music, audio or MIDI file for a
// song, then records the returned URL on the entry.
func (s *songService) UploadAsset(ctx context.Context, actor Actor, songID uint, category string, file *multipart.FileHeader) (dto.SongResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.SongResponse{}, ErrPermissionDenied
	}

	ctx, span := s.tracer.Start(ctx, "song.upload_asset")
	defer span.End()
	span.SetAttributes(
		attribute.Int("song.id", int(songID)),
		attribute.String("song.asset_category", category),
	)

	switch category {
	case AssetSheetMusic, AssetAudio, AssetMidi:
	default:
		return dto.SongResponse{}, ErrUnknownAssetCategory
	}

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.SongResponse{}, err
	}

	if file.Size > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.SongResponse{}, ErrUploadTooLarge
	}

	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SongResponse{}, ErrSongNotFound
		}
		return dto.SongResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.SongResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.SongResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.SongResponse{}, ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	detected := normalizeMime(mime.String())
	span.SetAttributes(attribute.String("song.detected_mime", detected))

	if !assetTypeAllowed(category, detected) {
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.SongResponse{}, ErrUploadTypeNotAllowed
	}

	uploader := s.audio
	if category == AssetSheetMusic {
		uploader = s.sheets
	}

	url, err := uploader.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.SongResponse{}, err
	}

	switch category {
	case AssetSheetMusic:
		song.SheetMusicURL = url
	case AssetAudio:
		song.AudioURL = url
	case AssetMidi:
		song.MidiURL = url
	}

	if err := s.songs.Update(ctx, &song); err != nil {
		return dto.SongResponse{}, err
	}

	s.logger.Info().Uint("song_id", songID).Str("category", category).Str("mime", detected).Msg("song asset uploaded")
	return dto.NewSongResponse(song), nil
}

func normalizeMime(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(strings.ToLower(value))
}

func assetTypeAllowed(category, mime string) bool {
	switch category {
	case AssetSheetMusic:
		switch mime {
		case "application/pdf", "image/png", "image/jpeg":
			return true
		}
	case AssetAudio:
		switch mime {
		case "audio/mpeg", "audio/wav", "audio/x-wav", "audio/ogg", "audio/flac", "audio/mp4", "audio/aac":
			return true
		}
	case AssetMidi:
		switch mime {
		case "audio/midi", "audio/x-midi":
			return true
		}
	}
	return false
}
