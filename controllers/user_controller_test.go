package controllers

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/momento-app/momento_backend/models"
)

func avatarRequest(t *testing.T, img image.Image) *http.Request {
	t.Helper()

	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(encoded.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile-picture", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestGetProfile(t *testing.T) {
	users := newFakeUserStore()
	user, _ := users.Create(nil, models.User{Email: "me@example.com", FullName: "Me", Password: "hash"})
	uc := NewUserController(users, &fakeMediaStore{configured: true})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := authenticatedContext(e, req, rec, user.ID)

	require.NoError(t, uc.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "me@example.com")
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestGetProfileUnknownUser(t *testing.T) {
	uc := NewUserController(newFakeUserStore(), &fakeMediaStore{configured: true})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := authenticatedContext(e, req, rec, primitive.NewObjectID())

	require.NoError(t, uc.GetProfile(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfilePicture(t *testing.T) {
	t.Run("resizes oversized avatars before upload", func(t *testing.T) {
		users := newFakeUserStore()
		user, _ := users.Create(nil, models.User{Email: "me@example.com"})
		media := &fakeMediaStore{configured: true}
		uc := NewUserController(users, media)

		e := echo.New()
		req := avatarRequest(t, image.NewRGBA(image.Rect(0, 0, 1024, 768)))
		rec := httptest.NewRecorder()
		c := authenticatedContext(e, req, rec, user.ID)

		require.NoError(t, uc.UpdateProfilePicture(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, media.uploads)

		// Uploaded bytes are a JPEG no wider than the avatar limit
		decoded, err := jpeg.Decode(bytes.NewReader(media.lastData))
		require.NoError(t, err)
		assert.LessOrEqual(t, decoded.Bounds().Dx(), 256)

		stored, err := users.FindByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://ik.imagekit.io/demo/"+media.lastName, stored.ProfilePic)
	})

	t.Run("keeps small avatars at native size", func(t *testing.T) {
		users := newFakeUserStore()
		user, _ := users.Create(nil, models.User{Email: "me@example.com"})
		media := &fakeMediaStore{configured: true}
		uc := NewUserController(users, media)

		e := echo.New()
		req := avatarRequest(t, image.NewRGBA(image.Rect(0, 0, 100, 100)))
		rec := httptest.NewRecorder()
		c := authenticatedContext(e, req, rec, user.ID)

		require.NoError(t, uc.UpdateProfilePicture(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		decoded, err := jpeg.Decode(bytes.NewReader(media.lastData))
		require.NoError(t, err)
		assert.Equal(t, 100, decoded.Bounds().Dx())
	})

	t.Run("rejects non-image payloads", func(t *testing.T) {
		users := newFakeUserStore()
		user, _ := users.Create(nil, models.User{Email: "me@example.com"})
		media := &fakeMediaStore{configured: true}
		uc := NewUserController(users, media)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="notes.txt"`)
		header.Set("Content-Type", "text/plain")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("not an image"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/users/profile-picture", body)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		rec := httptest.NewRecorder()
		c := authenticatedContext(e, req, rec, user.ID)

		require.NoError(t, uc.UpdateProfilePicture(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, media.uploads)
	})
}
