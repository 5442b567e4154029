package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"book-review-client/bookreview"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "bookreview",
	Short: "Terminal client for the book review service",
	Long: `Terminal client for the book review service: browse books, read and
write reviews, and manage your account against the remote REST API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func runShell(ctx context.Context) error {
	cfg := bookreview.LoadConfig()
	logger := bookreview.NewLogger(cfg.LogLevel)

	manager, err := bookreview.NewManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer manager.Close()

	notifier := bookreview.NewNotifier(bookreview.DefaultNotificationTTL, func(note bookreview.Notification) {
		fmt.Printf("\n[%s] %s\n", note.Severity, note.Message)
	})

	scanner := bufio.NewScanner(os.Stdin)

	// Review list from the last 'view book', pruned locally on delete so
	// the screen refreshes without a re-fetch.
	var lastReviews []bookreview.Review

	fmt.Println("Welcome to the Book Review Service!")
	fmt.Println("Available commands:")
	fmt.Println("  Account: signup, login, logout, whoami, profile, update profile, my reviews")
	fmt.Println("  Books: list books, view book, add book, update book, delete book")
	fmt.Println("  Reviews: add review, update review, delete review")
	fmt.Println("  Admin: grant role, activate user, deactivate user, delete user")
	fmt.Println("  System: health, exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "signup":
			handleSignUp(ctx, scanner, manager, notifier)
		case "login":
			handleLogin(ctx, scanner, manager, notifier)
		case "logout":
			handleLogout(manager, notifier)
		case "whoami":
			handleWhoAmI(ctx, manager)
		case "profile":
			handleProfile(ctx, manager, notifier)
		case "update profile":
			handleUpdateProfile(ctx, scanner, manager, notifier)
		case "my reviews":
			handleMyReviews(ctx, manager, notifier)
		case "list books":
			handleListBooks(ctx, manager, notifier)
		case "view book":
			handleViewBook(ctx, scanner, manager, notifier, &lastReviews)
		case "add book":
			handleAddBook(ctx, scanner, manager, notifier)
		case "update book":
			handleUpdateBook(ctx, scanner, manager, notifier)
		case "delete book":
			handleDeleteBook(ctx, scanner, manager, notifier)
		case "add review":
			handleAddReview(ctx, scanner, manager, notifier)
		case "update review":
			handleUpdateReview(ctx, scanner, manager, notifier)
		case "delete review":
			handleDeleteReview(ctx, scanner, manager, notifier, &lastReviews)
		case "grant role":
			handleGrantRole(ctx, scanner, manager, notifier)
		case "activate user":
			handleActivateUser(ctx, scanner, manager, notifier)
		case "deactivate user":
			handleDeactivateUser(ctx, scanner, manager, notifier)
		case "delete user":
			handleDeleteUser(ctx, scanner, manager, notifier)
		case "health":
			handleHealth(ctx, manager)
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
	return nil
}

// promptLine reads one trimmed line after printing the label.
func promptLine(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptInt64(sc *bufio.Scanner, label string) (int64, bool) {
	raw, ok := promptLine(sc, label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("Invalid number: %s\n", raw)
		return 0, false
	}
	return id, true
}

// notifyFailure maps an error to a notification. Authentication failures
// get the login prompt, everything else the caller's fallback text.
func notifyFailure(notifier *bookreview.Notifier, err error, fallback string) {
	if errors.Is(err, bookreview.ErrUnauthenticated) {
		notifier.Danger("Please login first.")
		return
	}
	notifier.Danger(fallback)
}

func handleSignUp(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	fullName, ok := promptLine(sc, "Full name: ")
	if !ok {
		return
	}
	displayName, ok := promptLine(sc, "Display name: ")
	if !ok {
		return
	}
	email, ok := promptLine(sc, "Email: ")
	if !ok {
		return
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if password == "" {
		fmt.Println("Error: Password cannot be empty")
		return
	}

	user, err := mgr.SignUp(ctx, fullName, displayName, email, password)
	if err != nil {
		notifier.Danger("Error creating user")
		return
	}
	notifier.Success("User created successfully!")
	fmt.Printf("Account %d created for %s. Use 'login' to sign in.\n", user.ID, user.Email)
}

func handleLogin(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	email, ok := promptLine(sc, "Email: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	if err := mgr.Login(ctx, email, password); err != nil {
		notifier.Danger("Login failed. Please check your credentials.")
		return
	}
	notifier.Success("Logged in successfully!")
}

func handleLogout(mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	if err := mgr.Logout(); err != nil {
		notifier.Danger("Failed to clear session.")
		return
	}
	notifier.Success("Logged out.")
}

func handleWhoAmI(ctx context.Context, mgr *bookreview.Manager) {
	me, err := mgr.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, bookreview.ErrUnauthenticated) {
			fmt.Println("Not logged in. Use 'login' to sign in.")
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}
	fmt.Printf("%s <%s> (ID: %d, role: %s)\n", me.DisplayName, me.Email, me.ID, me.Role)
}

func handleProfile(ctx context.Context, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	user, err := mgr.Profile(ctx)
	if err != nil {
		notifyFailure(notifier, err, "Error fetching user data")
		return
	}

	fmt.Printf("%-15s %s\n", "Full name:", user.FullName)
	fmt.Printf("%-15s %s\n", "Display name:", user.DisplayName)
	fmt.Printf("%-15s %s\n", "Email:", user.Email)
	status := "active"
	if !user.AccountStatus {
		status = "deactivated"
	}
	fmt.Printf("%-15s %s\n", "Status:", status)
}

func handleUpdateProfile(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	current, err := mgr.Profile(ctx)
	if err != nil {
		notifyFailure(notifier, err, "Error fetching user data")
		return
	}

	fullName, ok := promptLine(sc, fmt.Sprintf("Full name [%s]: ", current.FullName))
	if !ok {
		return
	}
	displayName, ok := promptLine(sc, fmt.Sprintf("Display name [%s]: ", current.DisplayName))
	if !ok {
		return
	}
	email, ok := promptLine(sc, fmt.Sprintf("Email [%s]: ", current.Email))
	if !ok {
		return
	}
	password, err := readPassword("New password (leave empty to keep): ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	// Empty answers keep the current value.
	update := bookreview.UserUpdate{
		FullName:    fullName,
		DisplayName: displayName,
		Email:       email,
		Password:    password,
	}
	if update.FullName == "" {
		update.FullName = current.FullName
	}
	if update.DisplayName == "" {
		update.DisplayName = current.DisplayName
	}
	if update.Email == "" {
		update.Email = current.Email
	}

	if _, err := mgr.UpdateProfile(ctx, update); err != nil {
		notifyFailure(notifier, err, "Error updating profile")
		return
	}
	notifier.Success("Profile updated successfully!")
}

func handleMyReviews(ctx context.Context, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	reviews, err := mgr.MyReviews(ctx)
	if err != nil {
		notifyFailure(notifier, err, "Failed to fetch your reviews.")
		return
	}
	if len(reviews) == 0 {
		fmt.Println("You have not reviewed any books yet.")
		return
	}

	fmt.Printf("%-30s %-7s %s\n", "Book", "Rating", "Review")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range reviews {
		fmt.Printf("%-30s %-7d %s\n", truncateString(r.BookTitle, 30), r.Rating, truncateString(r.ReviewText, 40))
	}
}

func handleListBooks(ctx context.Context, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	books, err := mgr.Books(ctx)
	if err != nil {
		notifyFailure(notifier, err, "Failed to fetch books.")
		return
	}
	if len(books) == 0 {
		fmt.Println("No books available.")
		return
	}

	fmt.Printf("%-5s %-30s %-25s %-15s %s\n", "ID", "Title", "Author", "Genre", "Year")
	fmt.Println(strings.Repeat("-", 85))
	for _, b := range books {
		fmt.Printf("%-5d %-30s %-25s %-15s %d\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			truncateString(b.Genre, 15),
			b.YearPublished)
	}
}

func handleViewBook(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier, lastReviews *[]bookreview.Review) {
	bookID, ok := promptInt64(sc, "Book ID: ")
	if !ok {
		return
	}

	book, err := mgr.Book(ctx, bookID)
	if err != nil {
		notifyFailure(notifier, err, "Failed to fetch book details.")
		return
	}

	fmt.Printf("\n%s by %s\n", book.Title, book.Author)
	fmt.Printf("Genre: %s | Year: %d\n", book.Genre, book.YearPublished)
	fmt.Printf("Summary: %s\n", book.Summary)
	if book.BookURL != "" {
		fmt.Printf("Cover: %s\n", book.BookURL)
	}

	reviews, err := mgr.Reviews(ctx, bookID)
	if err != nil {
		notifyFailure(notifier, err, "Failed to fetch reviews.")
		return
	}

	*lastReviews = reviews
	printReviews(reviews)

	if mgr.IsAdmin(ctx) {
		fmt.Println("\nAdmin actions available: 'update book', 'delete book'.")
	}
}

func handleAddBook(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	// Gate before any field entry or upload/create call is attempted.
	if !mgr.IsAdmin(ctx) {
		notifier.Danger("You are not authorized to add a book.")
		return
	}

	draft, ok := promptBookDraft(sc)
	if !ok {
		return
	}
	imagePath, ok := promptLine(sc, "Path to cover image: ")
	if !ok {
		return
	}

	book, err := mgr.AddBook(ctx, draft, imagePath)
	if err != nil {
		notifyFailure(notifier, err, "Failed to add book. Please try again.")
		return
	}
	notifier.Success("Book added successfully!")
	fmt.Printf("Added book ID %d with cover %s\n", book.ID, book.BookURL)
}

func handleUpdateBook(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	bookID, ok := promptInt64(sc, "Book ID: ")
	if !ok {
		return
	}

	current, err := mgr.Book(ctx, bookID)
	if err != nil {
		notifyFailure(notifier, err, "Failed to fetch book details.")
		return
	}

	draft, ok := promptBookDraft(sc)
	if !ok {
		return
	}
	// The cover keeps its existing URL; replacing it is a separate upload.
	draft.BookURL = current.BookURL

	if _, err := mgr.UpdateBook(ctx, bookID, draft); err != nil {
		notifyFailure(notifier, err, "Failed to update the book. Please try again.")
		return
	}
	notifier.Success("Book updated successfully!")
}

func handleDeleteBook(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	bookID, ok := promptInt64(sc, "Book ID: ")
	if !ok {
		return
	}
	confirm, ok := promptLine(sc, "Are you sure you want to delete this book? This action cannot be undone. (y/N): ")
	if !ok || strings.ToLower(confirm) != "y" {
		return
	}

	if err := mgr.RemoveBook(ctx, bookID); err != nil {
		notifyFailure(notifier, err, "Failed to delete the book. Please try again.")
		return
	}
	notifier.Success("Book deleted successfully!")
}

func handleAddReview(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	bookID, ok := promptInt64(sc, "Book ID: ")
	if !ok {
		return
	}
	rating, ok := promptRating(sc)
	if !ok {
		return
	}
	text, ok := promptLine(sc, "Review: ")
	if !ok {
		return
	}

	if _, err := mgr.AddReview(ctx, bookID, rating, text); err != nil {
		if errors.Is(err, bookreview.ErrAlreadyReviewed) {
			notifier.Danger("You have already reviewed this book")
			return
		}
		notifyFailure(notifier, err, "Failed to add review. Please try again.")
		return
	}
	notifier.Success("Review added successfully!")
}

func handleUpdateReview(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	reviewID, ok := promptInt64(sc, "Review ID: ")
	if !ok {
		return
	}
	rating, ok := promptRating(sc)
	if !ok {
		return
	}
	text, ok := promptLine(sc, "Review: ")
	if !ok {
		return
	}

	if _, err := mgr.EditReview(ctx, reviewID, rating, text); err != nil {
		notifyFailure(notifier, err, "Failed to update review. Please try again.")
		return
	}
	notifier.Success("Review updated successfully!")
}

func handleDeleteReview(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier, lastReviews *[]bookreview.Review) {
	reviewID, ok := promptInt64(sc, "Review ID: ")
	if !ok {
		return
	}

	if err := mgr.RemoveReview(ctx, reviewID); err != nil {
		notifyFailure(notifier, err, "Failed to delete review")
		return
	}
	notifier.Success("Review deleted successfully")

	// Refresh the last-viewed listing locally instead of re-fetching.
	if len(*lastReviews) > 0 {
		*lastReviews = bookreview.DropReview(*lastReviews, reviewID)
		printReviews(*lastReviews)
	}
}

func printReviews(reviews []bookreview.Review) {
	if len(reviews) == 0 {
		fmt.Println("\nNo reviews yet.")
		return
	}
	fmt.Printf("\n%-5s %-20s %-7s %s\n", "ID", "Reviewer", "Rating", "Review")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range reviews {
		fmt.Printf("%-5d %-20s %-7d %s\n",
			r.ID,
			truncateString(r.DisplayName, 20),
			r.Rating,
			truncateString(r.ReviewText, 45))
	}
}

func handleGrantRole(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	userID, ok := promptInt64(sc, "User ID: ")
	if !ok {
		return
	}
	role, ok := promptLine(sc, "Role (admin/user): ")
	if !ok {
		return
	}

	if err := mgr.GrantRole(ctx, userID, role); err != nil {
		notifyFailure(notifier, err, "Failed to grant role.")
		return
	}
	notifier.Success(fmt.Sprintf("Role '%s' granted to user %d", role, userID))
}

func handleActivateUser(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	userID, ok := promptInt64(sc, "User ID: ")
	if !ok {
		return
	}
	if _, err := mgr.ActivateUser(ctx, userID); err != nil {
		notifyFailure(notifier, err, "Failed to activate user.")
		return
	}
	notifier.Success(fmt.Sprintf("User %d activated", userID))
}

func handleDeactivateUser(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	userID, ok := promptInt64(sc, "User ID: ")
	if !ok {
		return
	}
	if _, err := mgr.DeactivateUser(ctx, userID); err != nil {
		notifyFailure(notifier, err, "Failed to deactivate user.")
		return
	}
	notifier.Success(fmt.Sprintf("User %d deactivated", userID))
}

func handleDeleteUser(ctx context.Context, sc *bufio.Scanner, mgr *bookreview.Manager, notifier *bookreview.Notifier) {
	userID, ok := promptInt64(sc, "User ID: ")
	if !ok {
		return
	}
	confirm, ok := promptLine(sc, "Are you sure you want to delete this user? (y/N): ")
	if !ok || strings.ToLower(confirm) != "y" {
		return
	}

	if err := mgr.RemoveUser(ctx, userID); err != nil {
		notifyFailure(notifier, err, "Failed to delete user.")
		return
	}
	notifier.Success(fmt.Sprintf("User %d deleted", userID))
}

func handleHealth(ctx context.Context, mgr *bookreview.Manager) {
	status, err := mgr.Health(ctx)
	if err != nil {
		fmt.Printf("Service unreachable: %v\n", err)
		return
	}
	fmt.Println(status.Message)
	fmt.Printf("CPU: %s | Memory: %s | Disk: %s\n",
		status.ResourceUsage.CPU, status.ResourceUsage.Memory, status.ResourceUsage.Disk)
}

func promptBookDraft(sc *bufio.Scanner) (bookreview.BookDraft, bool) {
	var draft bookreview.BookDraft
	var ok bool

	if draft.Title, ok = promptLine(sc, "Title: "); !ok {
		return draft, false
	}
	if draft.Author, ok = promptLine(sc, "Author: "); !ok {
		return draft, false
	}
	if draft.Genre, ok = promptLine(sc, "Genre: "); !ok {
		return draft, false
	}
	year, ok := promptInt64(sc, "Year published: ")
	if !ok {
		return draft, false
	}
	draft.YearPublished = int(year)
	if draft.Summary, ok = promptLine(sc, "Summary: "); !ok {
		return draft, false
	}
	return draft, true
}

func promptRating(sc *bufio.Scanner) (int, bool) {
	rating, ok := promptInt64(sc, "Rating (1-5): ")
	if !ok {
		return 0, false
	}
	if rating < 1 || rating > 5 {
		fmt.Println("Rating must be between 1 and 5.")
		return 0, false
	}
	return int(rating), true
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
