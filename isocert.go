// Package isocert looks up ISO management-system certifications for a
// company by name. It merges records from a relational store, a set of web
// scrapers and an LLM free-text search behind a time-boxed result cache.
//
// This package contains domain types, interfaces and the pure merge logic,
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, gemini/). Orchestration lives in search/ and scrape/.
package isocert
