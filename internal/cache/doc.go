// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package cache provides a small thread-safe TTL cache for read-mostly API
// responses such as the tag and ingredient lists.
//
// Each cache has a name that labels its Prometheus hit, miss and size
// series. Writers invalidate with Delete or Clear after a mutation.
//
//	c := cache.New("tags", 5*time.Minute)
//	defer c.Stop()
//	tags, err := cache.GetOrLoad(c, "all", func() ([]models.Tag, error) {
//	    return db.ListTags(ctx)
//	})
package cache
