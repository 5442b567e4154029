// Command seedbooks bulk-loads a catalog into the review service: it logs
// in as an admin, uploads each cover image, and creates the book with the
// returned URL.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"book-review-client/bookreview"

	"golang.org/x/term"
)

type bookEntry struct {
	title   string
	author  string
	genre   string
	year    int
	summary string
}

func main() {
	cfg := bookreview.LoadConfig()
	logger := bookreview.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	manager, err := bookreview.NewManager(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	email := os.Getenv("BOOKREVIEW_ADMIN_EMAIL")
	if email == "" {
		fmt.Fprintln(os.Stderr, "BOOKREVIEW_ADMIN_EMAIL must be set")
		os.Exit(1)
	}

	fmt.Printf("Password for %s: ", email)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	if err := manager.Login(ctx, email, strings.TrimSpace(string(bytePassword))); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}
	if !manager.IsAdmin(ctx) {
		fmt.Fprintln(os.Stderr, "Seeding requires an admin account")
		os.Exit(1)
	}

	// Cover metadata mapping (image filename -> book details)
	catalog := map[string]bookEntry{
		"1984.png":                   {"1984", "George Orwell", "Dystopian", 1949, "A totalitarian state watches everything."},
		"animal_farm.png":            {"Animal Farm", "George Orwell", "Satire", 1945, "The farm animals' revolution eats its own."},
		"anne_frank.png":             {"The Diary of a Young Girl", "Anne Frank", "Memoir", 1947, "A girl's diary from hiding in occupied Amsterdam."},
		"art_of_war.png":             {"The Art of War", "Sun Tzu", "Strategy", -500, "Classic treatise on strategy and conflict."},
		"fellowship_of_the_ring.png": {"The Fellowship of the Ring", "J.R.R. Tolkien", "Fantasy", 1954, "A hobbit sets out to destroy the One Ring."},
		"return_of_the_king.png":     {"The Return of the King", "J.R.R. Tolkien", "Fantasy", 1955, "The war for Middle-earth reaches its end."},
		"romeo_and_juliet.png":       {"Romeo and Juliet", "William Shakespeare", "Tragedy", 1597, "Two star-crossed lovers in Verona."},
		"the_two_towers.png":         {"The Two Towers", "J.R.R. Tolkien", "Fantasy", 1954, "The fellowship is broken and the war spreads."},
		"three_musketeers.png":       {"The Three Musketeers", "Alexandre Dumas", "Adventure", 1844, "All for one and one for all."},
	}

	coversDir := "covers"
	if len(os.Args) > 1 {
		coversDir = os.Args[1]
	}
	fmt.Printf("Seeding books from %s directory...\n", coversDir)

	files, err := os.ReadDir(coversDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading covers directory: %v\n", err)
		os.Exit(1)
	}

	successCount := 0
	errorCount := 0

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		entry, exists := catalog[filename]
		if !exists {
			fmt.Printf("Warning: No metadata found for %s, skipping\n", filename)
			continue
		}

		fmt.Printf("Seeding: %s by %s... ", entry.title, entry.author)

		draft := bookreview.BookDraft{
			Title:         entry.title,
			Author:        entry.author,
			Genre:         entry.genre,
			YearPublished: entry.year,
			Summary:       entry.summary,
		}

		book, err := manager.AddBook(ctx, draft, filepath.Join(coversDir, filename))
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}

		fmt.Printf("SUCCESS (ID: %d)\n", book.ID)
		successCount++
	}

	fmt.Printf("\nSeeding complete!\n")
	fmt.Printf("Successfully created: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	// Display summary of the catalog as the service now sees it
	if successCount > 0 {
		fmt.Println("\nBooks on the service:")
		books, err := manager.Books(ctx)
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
		} else {
			fmt.Printf("%-3s %-50s %-30s\n", "ID", "Title", "Author")
			fmt.Println(strings.Repeat("-", 85))
			for _, book := range books {
				fmt.Printf("%-3d %-50s %-30s\n", book.ID, truncateString(book.Title, 50), truncateString(book.Author, 30))
			}
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
