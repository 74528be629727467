package groupme

import (
	"context"
	"fmt"
	"net/url"
)

// maxGroups caps how many groups ListGroups will accumulate. The cap is
// intentional and literal: accumulation stops as soon as the running total
// exceeds it, even if the account belongs to more groups.
const maxGroups = 100

// ListGroups fetches the authenticated user's groups, earliest page first,
// ten per page, stopping on an empty page or once more than maxGroups have
// been collected.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	page := 1
	fetches := 0

	for {
		query := url.Values{}
		query.Set("per_page", fmt.Sprintf("%d", GroupsPerPage))
		query.Set("page", fmt.Sprintf("%d", page))

		var resp GroupsResponse
		if err := c.getJSON(ctx, GroupsEndpoint, query, &resp); err != nil {
			return nil, err
		}
		fetches++
		if len(resp.Response) == 0 {
			break
		}

		page++
		groups = append(groups, resp.Response...)
		if len(groups) > maxGroups {
			break
		}
	}

	c.logger.InfoWithFields("fetched group list", map[string]interface{}{
		"groups":  len(groups),
		"fetches": fetches,
	})
	return groups, nil
}
