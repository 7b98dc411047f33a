package auth

import apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"

var (
	InvalidCredentialsErr = &apperrors.PublicError{Kind: apperrors.ErrInvalidCredentials, Msg: "Invalid email or password"}
	EmailTakenErr         = &apperrors.PublicError{Kind: apperrors.ErrConflict, Msg: "Email already registered"}
	OrgNameTakenErr       = &apperrors.PublicError{Kind: apperrors.ErrConflict, Msg: "Organisation name already taken"}
	UserNotInOrgErr       = &apperrors.PublicError{Kind: apperrors.ErrCrossTenant, Msg: "User does not belong to your organisation"}
)
