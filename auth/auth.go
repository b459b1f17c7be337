// Package auth proxies customer credentials to the admin API and keeps a
// local mirror so a returning customer can still log in while the shop's
// backend is down. Degraded sessions get no admin bearer token, which
// keeps order tracking gated until the token can be refreshed.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"brewhaus/adminapi"
	"brewhaus/db"
	"brewhaus/middleware"
	"brewhaus/models"
	"brewhaus/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Handlers struct {
	Admin *adminapi.Client
}

func NewHandlers(admin *adminapi.Client) *Handlers {
	return &Handlers{Admin: admin}
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	utils.TrimAll(&input.Email, &input.Password)
	if input.Email == "" || input.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.Admin.Login(r.Context(), input.Email, input.Password)
	if err == nil {
		customer := res.Customer
		if customer.CustomerID == "" {
			customer.CustomerID = "c" + utils.GenerateRandomString(10)
		}
		h.mirrorCustomer(r.Context(), customer, input.Password, res.Token)
		h.respondWithSession(w, customer, false)
		return
	}

	if !errors.Is(err, adminapi.ErrUnavailable) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	// admin API down: fall back to the mirrored account
	log.Printf("login falling back to local mirror: %v", err)
	customer, lerr := h.localLogin(r.Context(), input.Email, input.Password)
	if lerr != nil {
		http.Error(w, "Login is temporarily unavailable. Please try again shortly.", http.StatusServiceUnavailable)
		return
	}
	h.respondWithSession(w, customer, true)
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	utils.TrimAll(&input.Name, &input.Email, &input.Phone, &input.Password)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.Admin.Register(r.Context(), input.Name, input.Email, input.Phone, input.Password)
	if err != nil {
		if errors.Is(err, adminapi.ErrUnavailable) {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Registration is temporarily unavailable. Please try again shortly.")
			return
		}
		utils.RespondWithError(w, http.StatusConflict, "Could not create the account: "+err.Error())
		return
	}

	customer := res.Customer
	if customer.CustomerID == "" {
		customer.CustomerID = "c" + utils.GenerateRandomString(10)
	}
	h.mirrorCustomer(r.Context(), customer, input.Password, res.Token)
	h.respondWithSession(w, customer, false)
}

// Logout handles POST /api/auth/logout. The JWT is short-lived; logout
// only clears the mirrored admin token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	if db.CustomersCollection != nil {
		_, err = db.CustomersCollection.UpdateOne(r.Context(),
			bson.M{"_id": claims.CustomerID},
			bson.M{"$set": bson.M{"adminToken": ""}},
		)
		if err != nil {
			log.Printf("logout token clear failed: %v", err)
		}
	}
	utils.SendResponse(w, http.StatusOK, nil, "Logged out", nil)
}

func (h *Handlers) respondWithSession(w http.ResponseWriter, customer models.Customer, degraded bool) {
	token, err := middleware.NewSessionToken(customer.CustomerID, customer.Email, degraded)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	message := "Login successful"
	if degraded {
		message = "Logged in offline; order tracking resumes when the shop reconnects"
	}
	utils.SendResponse(w, http.StatusOK, utils.M{
		"token": token,
		"customer": utils.M{
			"customerId": customer.CustomerID,
			"name":       customer.Name,
			"email":      customer.Email,
		},
		"degraded": degraded,
	}, message, nil)
}

// mirrorCustomer upserts the local account record after a successful
// admin round trip.
func (h *Handlers) mirrorCustomer(ctx context.Context, customer models.Customer, password, adminToken string) {
	if db.CustomersCollection == nil {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		return
	}
	update := bson.M{"$set": bson.M{
		"name":         customer.Name,
		"email":        customer.Email,
		"phone":        customer.Phone,
		"passwordHash": string(hashed),
		"adminToken":   adminToken,
		"degraded":     false,
		"lastLogin":    time.Now(),
	}, "$setOnInsert": bson.M{"createdAt": time.Now()}}

	_, err = db.CustomersCollection.UpdateOne(ctx,
		bson.M{"_id": customer.CustomerID}, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Printf("customer mirror upsert failed: %v", err)
	}
}

func (h *Handlers) localLogin(ctx context.Context, email, password string) (models.Customer, error) {
	if db.CustomersCollection == nil {
		return models.Customer{}, fmt.Errorf("no local account store")
	}
	var customer models.Customer
	err := db.CustomersCollection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		err = db.CustomersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("unknown account")
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return models.Customer{}, fmt.Errorf("bad credentials")
	}

	_, err = db.CustomersCollection.UpdateOne(ctx,
		bson.M{"_id": customer.CustomerID},
		bson.M{"$set": bson.M{"degraded": true, "lastLogin": time.Now()}},
	)
	if err != nil {
		log.Printf("degraded flag update failed: %v", err)
	}
	return customer, nil
}

// TokenStore resolves the mirrored admin bearer token for a customer.
// Implements tracking.TokenSource.
type TokenStore struct{}

func (TokenStore) AdminToken(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", fmt.Errorf("no customer in session")
	}
	if db.CustomersCollection == nil {
		return "", fmt.Errorf("no local account store")
	}
	var customer models.Customer
	if err := db.CustomersCollection.FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer); err != nil {
		return "", fmt.Errorf("account lookup: %w", err)
	}
	return customer.AdminToken, nil
}
