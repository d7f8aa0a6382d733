package metadata

import (
	"github.com/genricoloni/lyra/internal/domain"
	"go.uber.org/zap"
)

// fetchLyrics scans the held resource for embedded lyrics in the
// background. The result is posted back to the owning goroutine tagged
// with the record generation, so a result for a replaced record is dropped.
func (m *Model) fetchLyrics() {
	if m.closed || m.scanner == nil {
		return
	}
	if m.Lyrics() != "" {
		return
	}

	resource := m.DataFor(domain.FieldResource).String()
	if resource == "" {
		m.logger.Debug("No resource to scan for lyrics")
		return
	}

	gen := m.recordGen
	scanner := m.scanner
	logger := m.logger

	m.lyricsWG.Add(1)
	go func() {
		defer m.lyricsWG.Done()

		var text string
		fields, err := scanner.Scan(resource)
		if err != nil {
			logger.Warn("Lyrics scan failed",
				zap.String("resource", resource),
				zap.Error(err))
		} else if v, ok := fields.Get(domain.FieldLyrics); ok {
			text = v.String()
		}

		m.dispatcher.Post(func() {
			m.applyLyrics(gen, text)
		})
	}()
}

// applyLyrics appends the Lyrics row without rebuilding the others
func (m *Model) applyLyrics(gen uint64, text string) {
	if gen != m.recordGen {
		m.logger.Debug("Dropping lyrics for a replaced record")
		return
	}
	if text == "" {
		return
	}

	row := m.visible.Len()
	m.visible.Set(domain.FieldLyrics, domain.TextValue(text))
	m.fullData.Set(domain.FieldLyrics, domain.TextValue(text))

	m.emit(Event{Kind: EventRowInserted, Row: row})
	m.afterChange()
	m.emit(Event{Kind: EventLyricsChanged})
}
