// Package domain models RoadScout incident reports.
//
// # Report lifecycle
//
// A report starts as a draft assembled by the submission flow (see the submit
// package): the device supplies a coordinate fix and a photo, and the draft is
// optionally enriched with a reverse-geocoded address and the weather at the
// location. On submission the photo is run through an image-classification
// service to produce a title, description, and category, the record is
// persisted to the remote document store, and the store's acknowledgment
// (carrying the server-assigned "_id") enters the in-memory collection.
//
// Persisted records are mutated in exactly two ways afterwards: the state
// toggle (RESOLVED ⇄ UNDER RESOLUTION) and deletion. The timestamp is assigned
// once, at submission time, and never changes.
//
// # Wire shape
//
// Records are exchanged with the store as flat JSON documents:
//
//	{"_id": "...", "title": "...", "description": "...", "category": "...",
//	 "latitude": 41.15, "longitude": -8.62, "address": "...", "area": "...",
//	 "weather": {"temp": "15.0ºC", "description": "clear sky", "wind": "3.5 m/s"},
//	 "photoBase64": "data:image/jpeg;base64,...", "timestamp": "2026-01-02T15:04:05Z",
//	 "state": "UNDER RESOLUTION"}
//
// The weather strings keep their display formatting: temperature is Celsius
// with one decimal and a "ºC" suffix (converted from the provider's Kelvin),
// wind speed keeps the provider's m/s value. The photo is a data URI with the
// MIME prefix embedded; the classification client strips the prefix before
// upload.
//
// # Coordinates
//
// Latitude and longitude are WGS-84 degrees. Valid ranges are [-90, 90] and
// [-180, 180]; [Report.Validate] rejects anything outside them.
package domain
