package service

import "linkdeck/api/internal/apperr"

var (
	ErrUnauthenticated   = apperr.Unauthenticated("authentication required")
	ErrSessionUnverified = apperr.Unauthenticated("email address not verified")

	ErrEmailTaken         = apperr.Conflict("email already registered")
	ErrInvalidCredentials = apperr.Unauthenticated("invalid email or password")
	ErrEmailNotVerified   = apperr.Forbidden("email address not verified")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrAlreadyVerified    = apperr.Validation("email already verified")

	ErrMalformedCode        = apperr.Validation("verification code must be 6 letters or digits")
	ErrVerificationNotFound = apperr.Validation("no pending verification for this email")
	ErrCodeExpired          = apperr.Validation("verification code has expired, request a new one")
	ErrCodeMismatch         = apperr.Validation("verification code is incorrect")

	ErrWorkspaceNotFound  = apperr.NotFound("workspace not found")
	ErrInsufficientRole   = apperr.Forbidden("insufficient role for this action")
	ErrOwnerImmutable     = apperr.Forbidden("the workspace owner cannot be changed or removed")
	ErrOwnerNotAssignable = apperr.Forbidden("the OWNER role cannot be assigned")
	ErrUnknownRole        = apperr.Validation("role must be one of ADMIN, EDITOR, VIEWER")
	ErrMemberNotFound     = apperr.NotFound("member not found")
	ErrAlreadyMember      = apperr.Conflict("user is already a member of this workspace")
	ErrInvalidInvite      = apperr.Validation("invitation is invalid or has expired")
	ErrInviteMismatch     = apperr.Forbidden("invitation was issued to a different email address")

	ErrCategoryNotFound = apperr.NotFound("category not found")
	ErrCategoryExists   = apperr.Conflict("a category with this name already exists")
	ErrForeignCategory  = apperr.Validation("category does not belong to this workspace")
	ErrURLNotFound      = apperr.NotFound("url not found")

	ErrEmptyUpload      = apperr.Validation("file is empty")
	ErrUploadTooLarge   = apperr.Validation("file exceeds the upload size limit")
	ErrUnsupportedMedia = apperr.Validation("unsupported image format")
	ErrContentMismatch  = apperr.Validation("declared content type does not match file contents")
	ErrStorageDisabled  = apperr.New(apperr.KindInternal, "asset storage is not configured")
)
