/*
Package authsdk is a Go client for the gallery authentication API.

Tokens travel as httpOnly cookies, so the client keeps a cookie jar and
replays them on every call:

	client, err := authsdk.NewClient("https://gallery.example.com")
	if err != nil {
		return err
	}

	if _, err := client.Login(ctx, "alice", "correct horse"); err != nil {
		return err
	}

	// Later, once the five minute access token has lapsed:
	if _, err := client.Refresh(ctx); err != nil {
		return err
	}

Failed operations return an *APIError carrying the HTTP status and the
{status, message, error} body written by the server.
*/
package authsdk
