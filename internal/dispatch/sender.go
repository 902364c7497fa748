package dispatch

import (
	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/whatsapp"
)

// WhatsappSenderFactory builds Cloud API clients from an organization's
// stored credentials.
func WhatsappSenderFactory(baseURL string) SenderFactory {
	return func(org *model.Organization) (Sender, error) {
		if !org.HasChannelCredentials() {
			return nil, appErrors.ErrMissingChannelCreds
		}
		return whatsapp.NewClient(baseURL, *org.WhatsappPhoneNumberID, *org.WhatsappAccessToken), nil
	}
}
