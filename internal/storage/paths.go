package storage

import (
	"fmt"
	"strings"

	"github.com/julianstephens/routinelog/internal/constants"
)

// UserPath is the profile document of a user.
func UserPath(userID string) string {
	return "users/" + userID
}

// CollectionPath is a collection inside a user's namespace.
func CollectionPath(userID string, collection constants.Collection) string {
	return fmt.Sprintf("users/%s/%s", userID, collection)
}

// DocPath is a document inside a user's collection.
func DocPath(userID string, collection constants.Collection, id string) string {
	return CollectionPath(userID, collection) + "/" + id
}

// ParseCollectionPath reverses CollectionPath.
func ParseCollectionPath(path string) (Change, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != "users" || parts[1] == "" || parts[2] == "" {
		return Change{}, fmt.Errorf("invalid collection path %q", path)
	}
	return Change{UserID: parts[1], Collection: constants.Collection(parts[2])}, nil
}
