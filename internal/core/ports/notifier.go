package ports

import "context"

// PasswordNotifier delivers a freshly reset password to the account holder
// out of band (email, SMS). Delivery itself is an external collaborator;
// this core only hands the plaintext over and must never log it.
type PasswordNotifier interface {
	DeliverNewPassword(ctx context.Context, email, name, plaintext string) error
}
