package notification

import (
	"fmt"

	"github.com/vivenda/backend/internal/domain/shared"
)

// VaultAction identifies what happened to a vault document
type VaultAction string

const (
	VaultActionUpload      VaultAction = "upload"
	VaultActionDelete      VaultAction = "delete"
	VaultActionValidated   VaultAction = "validated"
	VaultActionRejectedDoc VaultAction = "rejected_doc"
	VaultActionUpdated     VaultAction = "updated"
)

// IsValid checks if the vault action is known
func (a VaultAction) IsValid() bool {
	switch a {
	case VaultActionUpload, VaultActionDelete, VaultActionValidated,
		VaultActionRejectedDoc, VaultActionUpdated:
		return true
	default:
		return false
	}
}

// NotificationType maps the action onto its notification type
func (a VaultAction) NotificationType() Type {
	return Type("vault_" + string(a))
}

// PropertyTitleFallback is used in messages when the property title is
// unavailable
const PropertyTitleFallback = "Imóvel"

// Fixed per-action title table for vault notifications
var vaultActionTitles = map[VaultAction]string{
	VaultActionUpload:      "Novo documento no cofre",
	VaultActionDelete:      "Documento removido do cofre",
	VaultActionValidated:   "Documento validado",
	VaultActionRejectedDoc: "Documento rejeitado",
	VaultActionUpdated:     "Documento atualizado",
}

// Past-tense phrase templates interpolated into the message body; the
// placeholder receives the property title
var vaultActionPhrases = map[VaultAction]string{
	VaultActionUpload:      "foi adicionado ao cofre de %s",
	VaultActionDelete:      "foi removido do cofre de %s",
	VaultActionValidated:   "foi validado no cofre de %s",
	VaultActionRejectedDoc: "foi rejeitado no cofre de %s",
	VaultActionUpdated:     "foi atualizado no cofre de %s",
}

// VaultTitle returns the fixed title for a vault action
func VaultTitle(action VaultAction) (string, error) {
	title, ok := vaultActionTitles[action]
	if !ok {
		return "", shared.NewDomainError("INVALID_ACTION", "Unknown vault action")
	}
	return title, nil
}

// VaultMessage builds the message body for a vault action, interpolating
// the document name, the action's past-tense phrase and the property title.
func VaultMessage(action VaultAction, documentName, propertyTitle string) (string, error) {
	phrase, ok := vaultActionPhrases[action]
	if !ok {
		return "", shared.NewDomainError("INVALID_ACTION", "Unknown vault action")
	}
	if propertyTitle == "" {
		propertyTitle = PropertyTitleFallback
	}
	return fmt.Sprintf("O documento \"%s\" %s.", documentName, fmt.Sprintf(phrase, propertyTitle)), nil
}
