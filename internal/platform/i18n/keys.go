// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n

// # Message Keys

// Form and draft engine.
const (
	KeyRequiredField = "form.required_field"
	KeyIncomplete    = "form.incomplete"
	KeyDraftSaved    = "draft.saved"
	KeyDraftLoaded   = "draft.loaded"
	KeyDraftNotFound = "draft.not_found"
	KeyDraftFailed   = "draft.failed"
)

// Field validation.
const (
	KeyValidateRequired    = "validate.required"
	KeyValidateMaxLen      = "validate.max_len"
	KeyValidateMinLen      = "validate.min_len"
	KeyValidateEmail       = "validate.email"
	KeyValidateURL         = "validate.url"
	KeyValidatePhone       = "validate.phone"
	KeyValidateUUID        = "validate.uuid"
	KeyValidateOneOf       = "validate.one_of"
	KeyValidateNonNegative = "validate.non_negative"
)

// KeyStepPrefix prefixes the title key of a form step ("form.step.basics").
const KeyStepPrefix = "form.step."

// Image picker.
const (
	KeyImageTooLarge    = "image.too_large"
	KeyImageNotImage    = "image.not_image"
	KeyImageEmpty       = "image.empty"
	KeyImageLimit       = "image.limit"
	KeyImageUploadFail  = "image.upload_failed"
	KeyImageUploadState = "image.progress"
)

// Catalog.
const (
	KeyCatalogLoadFailed   = "catalog.load_failed"
	KeyCatalogCreated      = "catalog.created"
	KeyCatalogUpdated      = "catalog.updated"
	KeyCatalogDeleted      = "catalog.deleted"
	KeyCatalogSaveFailed   = "catalog.save_failed"
	KeyCatalogDeleteFailed = "catalog.delete_failed"
	KeyCatalogEmpty        = "catalog.empty"
)

// Authentication and profile.
const (
	KeyAuthSignedIn        = "auth.signed_in"
	KeyAuthSignedOut       = "auth.signed_out"
	KeyAuthSignedUp        = "auth.signed_up"
	KeyAuthResetSent       = "auth.reset_sent"
	KeyAuthPasswordUpdated = "auth.password_updated"
	KeyAuthFailed          = "auth.failed"
	KeyProfileUpdated      = "profile.updated"
	KeyProfileFailed       = "profile.update_failed"
)

// Admin views.
const (
	KeyAdminRoleChanged = "admin.role_changed"
	KeyAdminRoleFailed  = "admin.role_failed"
	KeyAdminUsersFailed = "admin.users_failed"
)

// API errors.
const (
	KeyErrNotFound           = "error.not_found"
	KeyErrUnauthorized       = "error.unauthorized"
	KeyErrForbidden          = "error.forbidden"
	KeyErrValidation         = "error.validation"
	KeyErrConflict           = "error.conflict"
	KeyErrInternal           = "error.internal"
	KeyErrRateLimited        = "error.rate_limited"
	KeyErrInvalidCredentials = "error.invalid_credentials"
	KeyErrEmailTaken         = "error.email_taken"
	KeyErrResetTokenInvalid  = "error.reset_token_invalid"
	KeyErrNotOwner           = "error.not_owner"
)
