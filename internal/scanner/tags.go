package scanner

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/genricoloni/lyra/internal/domain"
	"go.uber.org/zap"
)

// TagScanner reads embedded tags of local media files
type TagScanner struct {
	logger *zap.Logger
	covers *CoverWriter
}

// NewTagScanner creates a scanner. Embedded pictures are cached through
// covers when it is not nil.
func NewTagScanner(logger *zap.Logger, covers *CoverWriter) *TagScanner {
	return &TagScanner{
		logger: logger,
		covers: covers,
	}
}

// Scan implements domain.MediaScanner. Remote resources and files without
// tags yield an empty Lyrics field and no error.
func (s *TagScanner) Scan(resource string) (domain.FieldSet, error) {
	fields := domain.NewFieldSet(domain.Field{Key: domain.FieldLyrics, Value: domain.TextValue("")})

	path, ok := localPath(resource)
	if !ok {
		s.logger.Debug("Not a local file, nothing to scan", zap.String("resource", resource))
		return fields, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fields, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		s.logger.Debug("No tags found", zap.String("path", path))
		return fields, nil
	}
	if err != nil {
		return fields, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}

	setText(&fields, domain.FieldTitle, m.Title())
	setText(&fields, domain.FieldArtist, m.Artist())
	setText(&fields, domain.FieldAlbum, m.Album())
	setText(&fields, domain.FieldAlbumArtist, m.AlbumArtist())
	setText(&fields, domain.FieldGenre, m.Genre())
	setText(&fields, domain.FieldComposer, m.Composer())
	setText(&fields, domain.FieldComment, m.Comment())
	fields.Set(domain.FieldLyrics, domain.TextValue(strings.TrimSpace(m.Lyrics())))

	if n, _ := m.Track(); n > 0 {
		fields.Set(domain.FieldTrackNumber, domain.IntegerValue(int64(n)))
	}
	if n, _ := m.Disc(); n > 0 {
		fields.Set(domain.FieldDiscNumber, domain.IntegerValue(int64(n)))
	}
	if y := m.Year(); y > 0 {
		fields.Set(domain.FieldYear, domain.IntegerValue(int64(y)))
	}

	if pic := m.Picture(); pic != nil && s.covers != nil {
		cover, err := s.covers.Write(pic.Data)
		if err != nil {
			s.logger.Warn("Failed to cache embedded cover",
				zap.String("path", path),
				zap.String("mime", pic.MIMEType),
				zap.Error(err))
		} else {
			fields.Set(domain.FieldImageURL, domain.URLValue((&url.URL{Scheme: "file", Path: cover}).String()))
		}
	}

	s.logger.Debug("Tags read",
		zap.String("path", path),
		zap.String("format", string(m.Format())),
		zap.Int("fields", fields.Len()))

	return fields, nil
}

// localPath extracts a file system path from a file URL or absolute path
func localPath(resource string) (string, bool) {
	if strings.HasPrefix(resource, "/") {
		return resource, true
	}
	u, err := url.Parse(resource)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}

func setText(fields *domain.FieldSet, key domain.FieldKey, s string) {
	if s = strings.TrimSpace(s); s != "" {
		fields.Set(key, domain.TextValue(s))
	}
}
