// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-style file and process helpers.
//
// Key functions:
//   - GetExecutableName: Returns the executable name without extension for CLI usage
//   - Stage / StagedFile: Writes a file next to its destination and publishes it with
//     an atomic rename(2), so issued certificate and key files appear complete or not at all
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
