package main

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_application_authFlow(t *testing.T) {
	server, _ := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	// The dashboard requires authentication; anonymous visitors land on the login page.
	doc, err := client.GetDoc(ctx, "/dashboard")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length())

	// Registering signs the user in and shows the dashboard.
	doc, err = client.SubmitForm(ctx, "/register", "/register", url.Values{
		"name":     {"Maya"},
		"email":    {"maya@example.com"},
		"password": {"correct horse battery"},
	})
	require.NoError(t, err)
	require.Contains(t, doc.Find("h1").Text(), "Maya")
	require.Contains(t, doc.Find(".empty").Text(), "No scans yet")

	// Sign out from the nav.
	doc, err = client.SubmitForm(ctx, "/dashboard", "/api/logout", nil)
	require.NoError(t, err)
	require.Contains(t, doc.Find(".flash").Text(), "signed out")

	// The email is now taken.
	doc, err = client.SubmitForm(ctx, "/register", "/register", url.Values{
		"name":     {"Maya again"},
		"email":    {"maya@example.com"},
		"password": {"another password"},
	})
	require.NoError(t, err)
	require.Contains(t, doc.Find(".flash").Text(), "already exists")

	// A wrong password is rejected without hinting which field was wrong.
	doc, err = client.SubmitForm(ctx, "/login", "/login", url.Values{
		"email":    {"maya@example.com"},
		"password": {"not the password"},
	})
	require.NoError(t, err)
	require.Contains(t, doc.Find(".flash").Text(), "Email or password is incorrect")

	// The right credentials bring back the dashboard.
	doc, err = client.SubmitForm(ctx, "/login", "/login", url.Values{
		"email":    {"maya@example.com"},
		"password": {"correct horse battery"},
	})
	require.NoError(t, err)
	require.Contains(t, doc.Find("h1").Text(), "Maya")
}

func Test_application_registerValidation(t *testing.T) {
	server, _ := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc, err := client.SubmitForm(ctx, "/register", "/register", url.Values{
		"name":     {"Short"},
		"email":    {"short@example.com"},
		"password": {"short"},
	})
	require.NoError(t, err)
	require.Contains(t, doc.Find(".flash").Text(), "at least 8 characters")

	doc, err = client.SubmitForm(ctx, "/register", "/register", url.Values{
		"name":     {"Bad Email"},
		"email":    {"not-an-email"},
		"password": {"long enough password"},
	})
	require.NoError(t, err)
	require.Contains(t, doc.Find(".flash").Text(), "email address")
}
