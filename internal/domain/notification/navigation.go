package notification

import (
	"encoding/json"
)

// DefaultRoute is the safe destination for unrecognized types or missing
// metadata
const DefaultRoute = "/notifications"

// navigationMetadata is the subset of metadata fields used for routing
type navigationMetadata struct {
	PropertyID     string `json:"property_id"`
	ConversationID string `json:"conversation_id"`
	RequestID      string `json:"request_id"`
	DocumentName   string `json:"document_name"`
}

// NavigationTarget maps a notification deterministically onto the route the
// client should open. The mapping is exhaustive over the closed type set;
// any unknown type falls back to DefaultRoute rather than failing, and so
// does any type whose expected metadata is absent.
func NavigationTarget(notifType Type, metadata json.RawMessage) string {
	var meta navigationMetadata
	if len(metadata) > 0 {
		// Malformed metadata degrades to the fallback routes below
		_ = json.Unmarshal(metadata, &meta)
	}

	switch notifType {
	case TypeVaultUpload, TypeVaultDelete, TypeVaultValidated,
		TypeVaultRejectedDoc, TypeVaultUpdated:
		if meta.PropertyID != "" {
			return "/properties/" + meta.PropertyID + "/vault"
		}
		return "/vault"

	case TypeMessageReceived:
		if meta.ConversationID != "" {
			return "/messages/" + meta.ConversationID
		}
		return "/messages"

	case TypeVisitRequest, TypeVisitConfirmed:
		if meta.RequestID != "" {
			return "/visits/" + meta.RequestID
		}
		return "/visits"

	case TypeAccessRequest, TypeAccessApproved:
		if meta.PropertyID != "" {
			return "/properties/" + meta.PropertyID + "/access"
		}
		return DefaultRoute

	case TypeServiceRequest:
		if meta.RequestID != "" {
			return "/services/requests/" + meta.RequestID
		}
		return "/services"

	default:
		return DefaultRoute
	}
}
