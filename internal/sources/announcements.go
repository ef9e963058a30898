package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// AnnouncementsClient queries the official announcements feed
type AnnouncementsClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
}

// NewAnnouncementsClient creates an announcements client
func NewAnnouncementsClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL string) *AnnouncementsClient {
	return &AnnouncementsClient{fetcher: fetcher, http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type announcementsResponse struct {
	Bekendmakingen []rawAnnouncement `json:"bekendmakingen"`
}

type rawAnnouncement struct {
	Datum        string `json:"datum"`
	Soort        string `json:"soort"`
	Omschrijving string `json:"omschrijving"`
	Publicatie   string `json:"publicatie"`
}

type announcementList struct {
	Items []models.Announcement `json:"items"`
}

// Recent returns official announcements for a registration number
func (c *AnnouncementsClient) Recent(ctx context.Context, kvkNummer string) ([]models.Announcement, bool, error) {
	list, fromCache, err := fetchTyped[announcementList](ctx, c.fetcher, cache.CategoryAnnouncements, kvkNummer, SourceAnnouncements,
		func(ctx context.Context) (*announcementList, bool, error) {
			return c.lookup(ctx, kvkNummer)
		})
	if err != nil {
		return nil, fromCache, err
	}
	if list == nil {
		return []models.Announcement{}, fromCache, nil
	}
	return list.Items, fromCache, nil
}

func (c *AnnouncementsClient) lookup(ctx context.Context, kvkNummer string) (*announcementList, bool, error) {
	params := url.Values{}
	params.Set("kvknummer", kvkNummer)

	var raw announcementsResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/bekendmakingen?"+params.Encode(), nil, &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw.Bekendmakingen) == 0 {
		return nil, false, nil
	}

	list := &announcementList{Items: make([]models.Announcement, 0, len(raw.Bekendmakingen))}
	for _, announcement := range raw.Bekendmakingen {
		list.Items = append(list.Items, models.Announcement{
			Datum:        announcement.Datum,
			Type:         announcement.Soort,
			Omschrijving: announcement.Omschrijving,
			Bron:         announcement.Publicatie,
		})
	}
	return list, true, nil
}
