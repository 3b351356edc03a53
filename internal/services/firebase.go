package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// InitFirebase boots the Firebase Admin SDK from a service-account file and
// returns the auth client that login and session verification run through.
// Guardian and babysitter credentials live in Firebase; the users table only
// stores the profile keyed by FirebaseUID.
func InitFirebase(credPath string) (*auth.Client, error) {
	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, err
	}
	return app.Auth(context.Background())
}
