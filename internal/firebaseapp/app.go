// Package firebaseapp builds the Firebase app shared by Firestore storage,
// ID-token verification and push notifications.
package firebaseapp

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// New initializes a Firebase app. Without a credentials file the application
// default credentials (or the emulators) are used.
func New(ctx context.Context, projectID, credentialsFile string, logger *log.Logger) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	if logger != nil {
		logger.Printf("[INFO] firebase app initialized (project=%q)", projectID)
	}
	return app, nil
}
