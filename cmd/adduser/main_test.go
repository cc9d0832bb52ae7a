package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
)

type fakeRegistrar struct {
	taken    map[string]bool
	password string
}

func (f *fakeRegistrar) Register(_ context.Context, email, password string) (*auth.User, error) {
	if f.taken[email] {
		return nil, auth.ErrEmailTaken
	}

	f.taken[email] = true
	f.password = password

	return &auth.User{ID: uuid.New(), Email: email}, nil
}

func useFake(t *testing.T) *fakeRegistrar {
	t.Helper()

	fake := &fakeRegistrar{taken: map[string]bool{}}

	orig := openRegistrar
	openRegistrar = func(context.Context) (registrar, func(), error) {
		return fake, func() {}, nil
	}

	t.Cleanup(func() { openRegistrar = orig })

	return fake
}

func TestRun_Success(t *testing.T) {
	useFake(t)

	stdout := new(bytes.Buffer)

	err := run([]string{"-email", "asha@example.com", "-password", "secret1"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "User asha@example.com created successfully")
}

func TestRun_DuplicateUser(t *testing.T) {
	useFake(t)

	args := []string{"-email", "asha@example.com", "-password", "secret1"}

	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingEmailFlag(t *testing.T) {
	useFake(t)

	stdout := new(bytes.Buffer)

	err := run([]string{"-password", "secret1"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: email")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_InteractivePassword(t *testing.T) {
	fake := useFake(t)

	stdout := new(bytes.Buffer)

	err := run([]string{"-email", "asha@example.com"}, bytes.NewBufferString("typed-secret\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Equal(t, "typed-secret", fake.password)
}

func TestRun_EmptyPassword(t *testing.T) {
	useFake(t)

	err := run([]string{"-email", "asha@example.com"}, bytes.NewBufferString("   \n"), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}
