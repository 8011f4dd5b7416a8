package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sonumarket-core/api/responses"
	"github.com/angelmondragon/sonumarket-core/api/validators"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/profile"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

type signInRequest struct {
	Phone string `json:"phone" validate:"required,numeric,min=6,max=20"`
}

type profileResponse struct {
	SignedIn bool          `json:"signed_in"`
	User     *profile.User `json:"user,omitempty"`
}

func writeUser(w http.ResponseWriter, u profile.User) {
	responses.WriteSuccess(w, profileResponse{SignedIn: true, User: &u})
}

func ProfileFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		u, signedIn := s.Profile.Current()
		if !signedIn {
			responses.WriteSuccess(w, profileResponse{})
			return
		}
		writeUser(w, u)
	}
}

// ProfileSignIn signs the session in from a phone number. Verification happens upstream.
func ProfileSignIn(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload signInRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		u, err := s.Profile.SignIn(profile.FromPhone(payload.Phone))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}

func ProfileSignOut(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		s.Profile.SignOut()
		responses.WriteSuccess(w, profileResponse{})
	}
}

func ProfileUpdateSettings(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload profile.Settings
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		u, err := s.Profile.UpdateSettings(payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}

// ProfileSaveAddress inserts the address, or updates it when the id matches a saved one.
func ProfileSaveAddress(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload profile.Address
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		u, err := s.Profile.SaveAddress(payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}

func ProfileDeleteAddress(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		u, err := s.Profile.DeleteAddress(chi.URLParam(r, "addressId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}

func ProfileAddPaymentMethod(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload profile.PaymentMethod
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		u, err := s.Profile.AddPaymentMethod(payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profileResponse{SignedIn: true, User: &u})
	}
}

func ProfileDeletePaymentMethod(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		u, err := s.Profile.DeletePaymentMethod(chi.URLParam(r, "methodId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}

func ProfileAddToWishlist(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		id := chi.URLParam(r, "productId")
		product, found := store.Product(id)
		if !found {
			responses.WriteError(r.Context(), logg, w, productNotFound(id))
			return
		}
		u, err := s.Profile.AddToWishlist(product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}

func ProfileRemoveFromWishlist(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		u, err := s.Profile.RemoveFromWishlist(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUser(w, u)
	}
}
