package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/momento-app/momento_backend/models"
)

const defaultUploadEndpoint = "https://upload.imagekit.io/api/v1/files/upload"

// uploadTag marks files pushed from this backend so the host can audit them
const uploadTag = "backend-upload"

// ImageKitService handles interactions with the ImageKit media host
type ImageKitService struct {
	uploadEndpoint string
	publicKey      string
	privateKey     string
	urlEndpoint    string
	client         *http.Client
}

// NewImageKitService creates a new ImageKit service instance
func NewImageKitService() *ImageKitService {
	publicKey := os.Getenv("IMAGEKIT_PUBLIC_KEY")
	privateKey := os.Getenv("IMAGEKIT_PRIVATE_KEY")
	urlEndpoint := os.Getenv("IMAGEKIT_URL_ENDPOINT")

	if publicKey == "" || privateKey == "" || urlEndpoint == "" {
		log.Printf("WARNING: ImageKit credentials not fully configured:")
		if publicKey == "" {
			log.Printf("  - IMAGEKIT_PUBLIC_KEY is missing")
		}
		if privateKey == "" {
			log.Printf("  - IMAGEKIT_PRIVATE_KEY is missing")
		}
		if urlEndpoint == "" {
			log.Printf("  - IMAGEKIT_URL_ENDPOINT is missing")
		}
		log.Printf("Media uploads will be rejected until these environment variables are set")
	} else {
		log.Printf("ImageKit Service Configuration:")
		log.Printf("  Upload endpoint: %s", defaultUploadEndpoint)
		log.Printf("  URL endpoint: %s", urlEndpoint)
		log.Printf("  Private key: [CONFIGURED]")
	}

	return &ImageKitService{
		uploadEndpoint: defaultUploadEndpoint,
		publicKey:      publicKey,
		privateKey:     privateKey,
		urlEndpoint:    urlEndpoint,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether the ImageKit credentials were provided at startup
func (s *ImageKitService) IsConfigured() bool {
	return s.publicKey != "" && s.privateKey != "" && s.urlEndpoint != ""
}

// Upload sends a file to ImageKit and returns the hosted URL and stored name.
// A single attempt is made; failures are returned to the caller, never retried.
func (s *ImageKitService) Upload(fileData []byte, fileName string) (*models.MediaUploadResult, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("missing ImageKit credentials. Please set IMAGEKIT_PUBLIC_KEY, IMAGEKIT_PRIVATE_KEY, and IMAGEKIT_URL_ENDPOINT environment variables")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(fileData); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	writer.WriteField("fileName", fileName)
	writer.WriteField("useUniqueFileName", "true")
	writer.WriteField("tags", uploadTag)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.uploadEndpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	// ImageKit authenticates server-side uploads with the private key as basic auth user
	req.SetBasicAuth(s.privateKey, "")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("imagekit upload error: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("imagekit upload error: status %d", resp.StatusCode)
	}

	var result models.MediaUploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w\nResponse body: %s", err, string(respBody))
	}

	if result.URL == "" || result.StoredName == "" {
		return nil, fmt.Errorf("incomplete upload response from ImageKit: %s", string(respBody))
	}

	return &result, nil
}
