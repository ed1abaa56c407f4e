// Package postvault provides a personal library for captured social-media
// posts. It turns heterogeneous inputs (a live page fragment, an embed
// snippet, or a bare link) into canonical post records, deduplicates them by
// canonical URL, and gates saves behind a per-credential rate limiter and a
// per-user rolling save quota.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, rod/).
package postvault
