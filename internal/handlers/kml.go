package handlers

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/twpayne/go-kml/v2"

	"klaew-klad/internal/models"
)

var shelterStyleColors = map[models.ShelterStatus]color.RGBA{
	models.ShelterOpen:   {R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
	models.ShelterFull:   {R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
	models.ShelterClosed: {R: 0x95, G: 0xa5, B: 0xa6, A: 0xff},
}

// WriteSheltersKML writes one placemark per shelter, styled by status
func WriteSheltersKML(w io.Writer, shelters []models.Shelter) error {
	styleURLs := make(map[models.ShelterStatus]string, len(shelterStyleColors))
	children := []kml.Element{kml.Name("Klaew Klad evacuation shelters")}

	for _, status := range []models.ShelterStatus{models.ShelterOpen, models.ShelterFull, models.ShelterClosed} {
		style := kml.SharedStyle("shelter-"+string(status),
			kml.IconStyle(kml.Color(shelterStyleColors[status])),
		)
		styleURLs[status] = style.URL()
		children = append(children, style)
	}

	for _, s := range shelters {
		placemark := []kml.Element{
			kml.Name(s.Name),
			kml.Description(shelterDescription(s)),
		}
		if url, ok := styleURLs[s.Status]; ok {
			placemark = append(placemark, kml.StyleURL(url))
		}
		placemark = append(placemark,
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: s.Coordinates.Lng, Lat: s.Coordinates.Lat})),
		)
		children = append(children, kml.Placemark(placemark...))
	}

	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

func shelterDescription(s models.Shelter) string {
	desc := fmt.Sprintf("%s: %d/%d occupied", s.Status, s.CurrentOccupancy, s.Capacity)
	if len(s.Facilities) > 0 {
		desc += ". Facilities: " + strings.Join(s.Facilities, ", ")
	}
	if s.ContactPhone != "" {
		desc += ". Contact: " + s.ContactPhone
	}
	return desc
}
