// Package azurerm implements an Azure Blob Storage document backend.
package azurerm

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("azblob", NewBackend)
}

// Backend fetches documents from Azure Blob Storage. References look like
// azblob://account/container/path/to/config.yml.
type Backend struct {
	clients map[string]*azblob.Client
	config  map[string]string
}

// NewBackend creates a new Azure Blob Storage backend.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	return &Backend{
		clients: make(map[string]*azblob.Client),
		config:  cfg,
	}, nil
}

func (b *Backend) Type() string {
	return "azblob"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	account := ref.Host
	containerName, blobPath, found := strings.Cut(strings.TrimPrefix(ref.Path, "/"), "/")
	if account == "" || !found || containerName == "" || blobPath == "" {
		return nil, fmt.Errorf("invalid azure reference %q (expected azblob://account/container/blob)", ref)
	}

	client, err := b.clientFor(account)
	if err != nil {
		return nil, err
	}

	resp, err := client.DownloadStream(ctx, containerName, blobPath, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch azblob://%s/%s/%s: %w", account, containerName, blobPath, err)
	}

	return resp.Body, nil
}

func (b *Backend) clientFor(account string) (*azblob.Client, error) {
	if client, ok := b.clients[account]; ok {
		return client, nil
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)

	// Support custom endpoint (for Azurite emulator)
	if endpoint := b.config["endpoint"]; endpoint != "" {
		serviceURL = endpoint
	}

	var client *azblob.Client

	// Support explicit access key authentication
	if accessKey := b.config["access_key"]; accessKey != "" {
		cred, err := azblob.NewSharedKeyCredential(account, accessKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with shared key: %w", err)
		}
	} else if connectionString := b.config["connection_string"]; connectionString != "" {
		var err error
		client, err = azblob.NewClientFromConnectionString(connectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client from connection string: %w", err)
		}
	} else {
		// Default to Azure Identity (DefaultAzureCredential)
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client: %w", err)
		}
	}

	b.clients[account] = client
	return client, nil
}
