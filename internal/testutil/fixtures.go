package testutil

import "klaew-klad/internal/models"

// CanalZone is the U-Tapao canal flood zone centre, a typical evacuation origin
var CanalZone = models.Coordinates{Lat: 7.0089, Lng: 100.4747}

// HatYaiDestinations returns the first four Hat Yai shelters as routing destinations
func HatYaiDestinations() []models.Destination {
	return []models.Destination{
		{ID: "shelter_1", Lat: 7.0234, Lng: 100.4901},
		{ID: "shelter_2", Lat: 7.0156, Lng: 100.4823},
		{ID: "shelter_3", Lat: 7.0198, Lng: 100.4689},
		{ID: "shelter_4", Lat: 7.0034, Lng: 100.4712},
	}
}

// CanalFloodArea returns the flooding canal zone with its polygon
func CanalFloodArea() models.FloodArea {
	return models.FloodArea{
		ID:          "area_1",
		Name:        "U-Tapao Canal Zone",
		WaterLevel:  2.5,
		Status:      models.AreaFlooding,
		Population:  15000,
		Coordinates: CanalZone,
		Polygon: []models.Coordinates{
			{Lat: 7.0050, Lng: 100.4700},
			{Lat: 7.0050, Lng: 100.4800},
			{Lat: 7.0130, Lng: 100.4800},
			{Lat: 7.0130, Lng: 100.4700},
		},
	}
}
