package groupme

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for the GroupMe REST API.
	BaseURL = "https://api.groupme.com/v3"

	// GroupsEndpoint lists the groups the authenticated user belongs to.
	GroupsEndpoint = "/groups"

	// MessagesPerPage is the page size used for message history fetches.
	MessagesPerPage = 100

	// GroupsPerPage is the page size used for group list fetches.
	GroupsPerPage = 10
)

// MessagesEndpoint returns the endpoint path for a group's messages.
func MessagesEndpoint(groupID string) string {
	return fmt.Sprintf("/groups/%s/messages", url.PathEscape(groupID))
}
