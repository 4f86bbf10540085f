package blocks

import (
	"net/url"
	"regexp"
	"strings"
)

// Provider identifies a video host.
type Provider string

const (
	ProviderNone    Provider = ""
	ProviderYouTube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
)

var (
	youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	vimeoID   = regexp.MustCompile(`^[0-9]+$`)
)

// VideoProvider returns the provider for a link, or ProviderNone when the
// link is not a recognised video page.
func VideoProvider(link string) Provider {
	p, _ := parseVideo(link)
	return p
}

// IsVideoURL reports whether link points at a supported video page.
func IsVideoURL(link string) bool {
	return VideoProvider(link) != ProviderNone
}

// VideoID returns the provider's id for the video, or "".
func VideoID(link string) string {
	_, id := parseVideo(link)
	return id
}

// PlayerURL returns an iframe-embeddable URL for the video.
func PlayerURL(link string) string {
	switch p, id := parseVideo(link); p {
	case ProviderYouTube:
		return "https://www.youtube.com/embed/" + id
	case ProviderVimeo:
		return "https://player.vimeo.com/video/" + id
	}
	return link
}

func parseVideo(link string) (Provider, string) {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return ProviderNone, ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ProviderNone, ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live" || segments[0] == "v"):
			id = segments[1]
		}
		if youtubeID.MatchString(id) {
			return ProviderYouTube, id
		}
		return ProviderNone, ""
	case "vimeo.com", "player.vimeo.com":
		id = segments[len(segments)-1]
		if vimeoID.MatchString(id) {
			return ProviderVimeo, id
		}
		return ProviderNone, ""
	default:
		return ProviderNone, ""
	}
	if youtubeID.MatchString(id) {
		return ProviderYouTube, id
	}
	return ProviderNone, ""
}
