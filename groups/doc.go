// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package groups stores study groups and their members. Each group has exactly
// one leader, created together with the group.
package groups
