package gateway

import (
	"fmt"

	"github.com/google/uuid"
)

// Backend routes consumed by the client
const (
	RouteLogin = "/auth/login"
	// The backend registers sign-up under this exact spelling; correcting
	// it here would 404 every registration
	RouteSignup  = "/auth/singup"
	RouteSignout = "/auth/signout"
	RouteCurrentUser = "/auth"

	RouteUsers          = "/users"
	RouteUploadAvatar   = "/users/upload"
	RouteUpdatePassword = "/users/update-password"

	RouteItems           = "/items"
	RouteUploadItemImage = "/items/upload"

	RouteBidsByUser = "/bids/user"
)

// ItemsPagePath returns the paged item listing path
func ItemsPagePath(page int) string {
	return fmt.Sprintf("%s?page=%d", RouteItems, page)
}

// ItemPath returns the path addressing a single item
func ItemPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", RouteItems, id)
}

// ItemImagePath returns the image upload path for an item
func ItemImagePath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", RouteUploadItemImage, id)
}

// UserPath returns the path addressing a single user
func UserPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", RouteUsers, id)
}

// AvatarPath returns the avatar upload path for a user
func AvatarPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", RouteUploadAvatar, id)
}

// PasswordPath returns the password change path for a user
func PasswordPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", RouteUpdatePassword, id)
}

// BidsByUserPath returns the bid listing path for a user
func BidsByUserPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", RouteBidsByUser, id)
}

// Fixed multipart field names the backend expects
const (
	FieldItemImage = "image"
	FieldAvatar    = "avatar"
)
