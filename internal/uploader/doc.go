// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploader validates documents for upload and watches a drop
// folder for automatic ingestion.
//
// The backend only indexes PDF, Word and plain-text files, so
// extension checks happen client-side before any network round trip.
// The watcher debounces filesystem events (editors fire several per
// save) and rate-limits uploads so a bulk copy into the drop folder
// does not flood the backend.
package uploader
