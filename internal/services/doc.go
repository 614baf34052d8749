// Package services defines the [Storage] interface for object-storage providers and implements it for
// Azure Blob Storage, a local SQLite store and a photobook server acting as a proxy.
//
// # Storage Interface
//
// The photobook only needs two capabilities from storage: list the objects in one container and upload
// one object. Every provider maps its own listing format onto [Object] and returns an [UploadResult]
// carrying the public URL of a new object.
//
// # Azure Implementation
//
// [AzureBlobService] talks to the Blob REST API directly. Requests are authorized either with a shared
// access signature appended to every URL, or with short-lived bearer tokens obtained through the OAuth2
// client-credentials flow. The signature is part of the URL returned by uploads; callers strip it before
// showing the URL anywhere.
//
// # Local Implementation
//
// [LocalBlobService] keeps blobs in SQLite through repositories.ObjectRepository. Its public URLs point
// at the /objects/ route of `photobook serve`.
//
// # Proxy Implementation
//
// [ProxyService] forwards list and upload calls to a running `photobook serve`, so a terminal client
// never holds storage credentials.
//
// # Error Handling
//
// Network failures and non-2xx responses wrap [shared.ErrTransport].
// Rejected input wraps [shared.ErrValidation].
package services
