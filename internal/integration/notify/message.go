package notify

import (
	"fmt"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// Message renders the in-app text shown for an event.
func Message(event adapter.NotificationEvent) string {
	switch event.Kind {
	case entity.NotificationGiftModified:
		return fmt.Sprintf("¡Atención! El regalo \"%s\" que habías comprado ha sido MODIFICADO por el solicitante.", event.GiftName)
	case entity.NotificationGiftDeleted:
		return fmt.Sprintf("¡Atención! El regalo \"%s\" que habías comprado ha sido ELIMINADO por el solicitante.", event.GiftName)
	case entity.NotificationAssignment:
		return fmt.Sprintf("🎭 Ya tienes tu asignación de Amigo Invisible en \"%s\". ¡Te ha tocado %s!", event.GroupName, event.ReceiverName)
	case entity.NotificationEventDay:
		return fmt.Sprintf("🎉 ¡Ha llegado el día! La lista de \"%s\" ya está disponible.", event.GroupName)
	}
	return string(event.Kind)
}
