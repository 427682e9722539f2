// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package shoppinglist renders a user's aggregated shopping cart as the
// plain-text file served by /api/recipes/download_shopping_cart/.
package shoppinglist

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// ContentType is the media type of the rendered file.
const ContentType = "text/plain; charset=utf-8"

// FileName returns the attachment name for username.
func FileName(username string) string {
	return username + "_shopping_cart.txt"
}

// Render writes the shopping list. Items are expected in display order
// (database.ShoppingList sorts by name, then unit). now supplies the date
// line and the footer year.
func Render(w io.Writer, username string, items []models.ShoppingItem, now time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Список покупок для пользователя: %s\n\n", username)
	fmt.Fprintf(bw, "Дата: %s\n\n", now.Format("2006-01-02"))
	for i, item := range items {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "- %s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
	}
	fmt.Fprintf(bw, "\n\nFoodgram (%d)", now.Year())

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write shopping list: %w", err)
	}
	return nil
}
