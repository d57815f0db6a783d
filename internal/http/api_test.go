package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diet-ledger/internal/repository/sqlite"
	"diet-ledger/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	mealRepo := sqlite.NewMealRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, mealRepo.Init(ctx))

	router := gin.New()
	handler := NewHandler(service.NewIdentityService(userRepo), service.NewMealService(mealRepo), 86400)
	handler.RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, name, email string) *http.Cookie {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/users", gin.H{"name": name, "email": email}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func createMeal(t *testing.T, router *gin.Engine, session *http.Cookie, name, description string, date int64, onDiet bool) {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/meals", gin.H{
		"name":        name,
		"description": description,
		"date":        date,
		"is_on_diet":  onDiet,
	}, session)
	require.Equal(t, http.StatusCreated, w.Code)
}

func listMeals(t *testing.T, router *gin.Engine, session *http.Cookie) []MealResponse {
	t.Helper()

	w := doJSON(router, http.MethodGet, "/meals", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meals []MealResponse `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Meals
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	router := newTestRouter(t)

	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")
	assert.Equal(t, "/", session.Path)
	assert.Equal(t, 86400, session.MaxAge)
	assert.NotEmpty(t, session.Value)

	// the cookie resolves back to the user that was just created
	w := doJSON(router, http.MethodGet, "/users", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "John Doe", resp.User.Name)
	assert.Equal(t, "Jhondoe@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/users", gin.H{"name": "Jo", "email": "jo@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/users", gin.H{"name": "John Doe", "email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/users"},
		{http.MethodPost, "/meals"},
		{http.MethodGet, "/meals"},
		{http.MethodGet, "/meals/summary"},
		{http.MethodGet, "/meals/" + uuid.NewString()},
		{http.MethodPut, "/meals/" + uuid.NewString()},
		{http.MethodDelete, "/meals/" + uuid.NewString()},
	} {
		w := doJSON(router, route.method, route.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}

	// a cookie with an unknown token is just as unauthorized
	stale := &http.Cookie{Name: SessionCookie, Value: uuid.NewString()}
	w := doJSON(router, http.MethodGet, "/meals", nil, stale)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndListMeals(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	now := time.Now().UnixMilli()
	tomorrow := now + 24*60*60*1000
	createMeal(t, router, session, "Breakfast", "It's a breakfast", now, true)
	createMeal(t, router, session, "Lunch", "It's a lunch", tomorrow, true)

	meals := listMeals(t, router, session)
	require.Len(t, meals, 2)

	// most recent date first
	assert.Equal(t, "Lunch", meals[0].Name)
	assert.Equal(t, "It's a lunch", meals[0].Description)
	assert.Equal(t, tomorrow, meals[0].Date)
	assert.True(t, meals[0].IsOnDiet)
	assert.Equal(t, "Breakfast", meals[1].Name)

	_, err := uuid.Parse(meals[0].ID)
	assert.NoError(t, err)
}

func TestCreateMealValidation(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	w := doJSON(router, http.MethodPost, "/meals", gin.H{
		"name":        "abc",
		"description": "short name",
		"date":        time.Now().UnixMilli(),
		"is_on_diet":  true,
	}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/meals", gin.H{
		"name":        "Lunch",
		"description": "tiny",
		"date":        time.Now().UnixMilli(),
		"is_on_diet":  true,
	}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/meals", gin.H{
		"name":        "Lunch",
		"description": "It's a lunch",
		"date":        time.Now().UnixMilli(),
	}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing is_on_diet")
}

func TestGetMeal(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	date := time.Now().UnixMilli()
	createMeal(t, router, session, "Breakfast", "It's a breakfast", date, true)
	meals := listMeals(t, router, session)
	require.Len(t, meals, 1)

	w := doJSON(router, http.MethodGet, "/meals/"+meals[0].ID, nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meal MealResponse `json:"meal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, meals[0], resp.Meal)

	// a second read returns the same field values
	w = doJSON(router, http.MethodGet, "/meals/"+meals[0].ID, nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	var again struct {
		Meal MealResponse `json:"meal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, resp.Meal, again.Meal)

	w = doJSON(router, http.MethodGet, "/meals/not-a-uuid", nil, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/meals/"+uuid.NewString(), nil, session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMealsAreInvisibleAcrossUsers(t *testing.T) {
	router := newTestRouter(t)
	owner := registerUser(t, router, "John Doe", "Jhondoe@example.com")
	intruder := registerUser(t, router, "Jane Roe", "janeroe@example.com")

	createMeal(t, router, owner, "Lunch", "It's a lunch", time.Now().UnixMilli(), true)
	meals := listMeals(t, router, owner)
	require.Len(t, meals, 1)
	mealID := meals[0].ID

	assert.Empty(t, listMeals(t, router, intruder))

	w := doJSON(router, http.MethodGet, "/meals/"+mealID, nil, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPut, "/meals/"+mealID, gin.H{"name": "Hijacked"}, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/meals/"+mealID, nil, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the owner's meal is untouched
	meals = listMeals(t, router, owner)
	require.Len(t, meals, 1)
	assert.Equal(t, "Lunch", meals[0].Name)
}

func TestUpdateMealPartial(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	date := time.Now().UnixMilli()
	createMeal(t, router, session, "Breakfast", "It's a breakfast", date, true)
	meals := listMeals(t, router, session)
	require.Len(t, meals, 1)

	w := doJSON(router, http.MethodPut, "/meals/"+meals[0].ID, gin.H{
		"name":        "Lunch",
		"description": "It's a lunch",
	}, session)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	updated := listMeals(t, router, session)
	require.Len(t, updated, 1)
	assert.Equal(t, "Lunch", updated[0].Name)
	assert.Equal(t, "It's a lunch", updated[0].Description)
	assert.Equal(t, date, updated[0].Date)
	assert.True(t, updated[0].IsOnDiet)
}

func TestUpdateMealValidation(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	createMeal(t, router, session, "Breakfast", "It's a breakfast", time.Now().UnixMilli(), true)
	meals := listMeals(t, router, session)
	require.Len(t, meals, 1)

	w := doJSON(router, http.MethodPut, "/meals/"+meals[0].ID, gin.H{"name": "abc"}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/meals/not-a-uuid", gin.H{"name": "Lunch"}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/meals/"+uuid.NewString(), gin.H{"name": "Lunch"}, session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMeal(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	now := time.Now().UnixMilli()
	createMeal(t, router, session, "Breakfast", "It's a breakfast", now, true)
	createMeal(t, router, session, "Lunch", "It's a lunch", now+1000, false)

	meals := listMeals(t, router, session)
	require.Len(t, meals, 2)
	target := meals[0].ID

	w := doJSON(router, http.MethodDelete, "/meals/"+target, nil, session)
	require.Equal(t, http.StatusNoContent, w.Code)

	remaining := listMeals(t, router, session)
	require.Len(t, remaining, 1)
	assert.NotEqual(t, target, remaining[0].ID)

	w = doJSON(router, http.MethodDelete, "/meals/"+target, nil, session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func getSummary(t *testing.T, router *gin.Engine, session *http.Cookie) SummaryResponse {
	t.Helper()

	w := doJSON(router, http.MethodGet, "/meals/summary", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMealSummary(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	assert.Equal(t, SummaryResponse{}, getSummary(t, router, session), "no meals yet")

	// chronological order: on, on, off, on
	base := time.Now().UnixMilli()
	createMeal(t, router, session, "Breakfast", "It's a breakfast", base, true)
	createMeal(t, router, session, "Lunch", "It's a lunch", base+1000, true)
	createMeal(t, router, session, "Snack", "It's a snack", base+2000, false)
	createMeal(t, router, session, "Dinner", "It's a dinner", base+3000, true)

	assert.Equal(t, SummaryResponse{
		TotalMeals:               4,
		TotalMealsOnDiet:         3,
		TotalMealsNotOnDiet:      1,
		TotalMealsOnDietSequence: 2,
	}, getSummary(t, router, session))
}

func TestMealSummaryAllOnDiet(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "John Doe", "Jhondoe@example.com")

	base := time.Now().UnixMilli()
	for i := 0; i < 3; i++ {
		createMeal(t, router, session, "Salad", "It's a salad", base+int64(i)*1000, true)
	}

	summary := getSummary(t, router, session)
	assert.Equal(t, 3, summary.TotalMeals)
	assert.Equal(t, 3, summary.TotalMealsOnDietSequence)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
