package service

import "github.com/campusmess/foodcourt/internal/core/domain"

// authorize gates status changes and cancellations: staff and admins act on
// any order, a student only on orders placed under their own mess id.
func authorize(ident domain.Identity, order *domain.Order) error {
	if ident.IsStaff() {
		return nil
	}
	if ident.IsStudent() && ident.Owns(order) {
		return nil
	}
	return ErrUnauthorized
}
