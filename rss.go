package rango

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate,omitempty"`
	GUID    string `xml:"guid"`
}

// rssFeedSize caps the newest-pages feed.
const rssFeedSize = 20

// handleFeed serves an RSS feed of the most recently added pages. Item links
// go through the tracked redirect so feed clicks count as visits too.
func (a *App) handleFeed(c echo.Context) error {
	pages, err := a.Store.RecentPages(rssFeedSize)
	if err != nil {
		return err
	}
	base := a.Config.URL
	items := make([]rssItem, 0, len(pages))
	for _, p := range pages {
		pubDate := ""
		if p.FirstVisit != nil {
			pubDate = p.FirstVisit.Format(time.RFC1123Z)
		}
		items = append(items, rssItem{
			Title:   p.Title,
			Link:    base + p.GotoLink(),
			PubDate: pubDate,
			GUID:    p.URL,
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
