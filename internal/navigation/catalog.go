package navigation

import "github.com/genricoloni/lyra/internal/domain"

// Catalog lists the top-level views offered in the sidebar, with their
// default titles and icons.
type Catalog struct {
	views  []domain.ViewKind
	titles map[domain.ViewKind]string
	icons  map[domain.ViewKind]string
}

// NewCatalog returns the standard set of top-level views
func NewCatalog() *Catalog {
	return &Catalog{
		views: []domain.ViewKind{
			domain.ViewContext,
			domain.ViewRecentlyPlayed,
			domain.ViewFrequentlyPlayed,
			domain.ViewAllAlbums,
			domain.ViewAllArtists,
			domain.ViewAllTracks,
			domain.ViewAllGenres,
			domain.ViewFilesBrowser,
			domain.ViewRadiosBrowser,
		},
		titles: map[domain.ViewKind]string{
			domain.ViewContext:          "Now Playing",
			domain.ViewRecentlyPlayed:   "Recently Played",
			domain.ViewFrequentlyPlayed: "Frequently Played",
			domain.ViewAllAlbums:        "Albums",
			domain.ViewAllArtists:       "Artists",
			domain.ViewAllTracks:        "Tracks",
			domain.ViewAllGenres:        "Genres",
			domain.ViewFilesBrowser:     "Files",
			domain.ViewRadiosBrowser:    "Radios",
		},
		icons: map[domain.ViewKind]string{
			domain.ViewContext:          "image://icon/view-media-lyrics",
			domain.ViewRecentlyPlayed:   "image://icon/media-playlist-play",
			domain.ViewFrequentlyPlayed: "image://icon/view-media-playcount",
			domain.ViewAllAlbums:        "image://icon/view-media-album-cover",
			domain.ViewAllArtists:       "image://icon/view-media-artist",
			domain.ViewAllTracks:        "image://icon/view-media-track",
			domain.ViewAllGenres:        "image://icon/view-media-genre",
			domain.ViewFilesBrowser:     "image://icon/document-open-folder",
			domain.ViewRadiosBrowser:    "image://icon/radio",
		},
	}
}

// Views returns the top-level views in display order
func (c *Catalog) Views() []domain.ViewKind {
	out := make([]domain.ViewKind, len(c.views))
	copy(out, c.views)
	return out
}

// Index returns the sidebar position of view, or -1 for drill-down views
func (c *Catalog) Index(view domain.ViewKind) int {
	for i, v := range c.views {
		if v == view {
			return i
		}
	}
	return -1
}

// MainTitle returns suggested when set, the view's default title otherwise
func (c *Catalog) MainTitle(view domain.ViewKind, suggested string) string {
	if suggested != "" {
		return suggested
	}
	return c.titles[view]
}

// ImageURL returns suggested when set, the view's default icon otherwise
func (c *Catalog) ImageURL(view domain.ViewKind, suggested string) string {
	if suggested != "" {
		return suggested
	}
	return c.icons[view]
}
