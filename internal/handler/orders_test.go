package handler_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ceralandia/api/internal/auth"
	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/handler"
	"github.com/ceralandia/api/internal/middleware"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/service"
	"github.com/ceralandia/api/internal/session"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// --- Mock OrderServicer ---

type mockOrderService struct {
	fetchFn         func(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error)
	fetchAllFn      func(ctx context.Context, actor workflow.Actor) ([]order.Order, error)
	getFn           func(ctx context.Context, actor workflow.Actor, id uuid.UUID) (order.Order, error)
	createFn        func(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error)
	updateFn        func(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error)
	changeStatusFn  func(ctx context.Context, actor workflow.Actor, id uuid.UUID, to string) (service.Outcome, error)
	deleteFn        func(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
	prepareImportFn func(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error)
	confirmFn       func(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error)
	cancelFn        func(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error)
}

func (m *mockOrderService) Fetch(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, actor, partition)
	}
	return []order.Order{}, nil
}

func (m *mockOrderService) FetchAll(ctx context.Context, actor workflow.Actor) ([]order.Order, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx, actor)
	}
	return []order.Order{}, nil
}

func (m *mockOrderService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (order.Order, error) {
	if m.getFn != nil {
		return m.getFn(ctx, actor, id)
	}
	return order.Order{}, service.ErrNotFound
}

func (m *mockOrderService) Create(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error) {
	return m.createFn(ctx, actor, o)
}

func (m *mockOrderService) Update(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error) {
	return m.updateFn(ctx, actor, o)
}

func (m *mockOrderService) ChangeStatus(ctx context.Context, actor workflow.Actor, id uuid.UUID, to string) (service.Outcome, error) {
	return m.changeStatusFn(ctx, actor, id, to)
}

func (m *mockOrderService) Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	return m.deleteFn(ctx, actor, id)
}

func (m *mockOrderService) PrepareImport(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error) {
	return m.prepareImportFn(ctx, actor, partition, rows)
}

func (m *mockOrderService) Confirm(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error) {
	return m.confirmFn(ctx, actor, id)
}

func (m *mockOrderService) Cancel(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error) {
	return m.cancelFn(ctx, actor, id)
}

// --- Helpers ---

func setupOrderRouter(svc *mockOrderService) *chi.Mux {
	h := handler.NewOrderHandler(svc, time.UTC)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/orders", h.RegisterRoutes)
	r.Route("/confirmations", handler.NewConfirmationHandler(svc).RegisterRoutes)
	return r
}

func day(s string) *time.Time {
	t, _ := time.Parse(order.DateLayout, s)
	return &t
}

func sampleOrders() []order.Order {
	return []order.Order{
		{ID: uuid.New(), Customer: "Mario Rossi", Phone: "333", Operator: "Ambra", Worker: "Salvo", Status: enum.StatusReady},
		{ID: uuid.New(), Customer: "Lucia Bianchi", Phone: "334", Operator: "Franco", Worker: "Franco", Status: enum.StatusAwaitingPickup},
		{ID: uuid.New(), Customer: "Giò Ámbrosi", Phone: "335", Operator: "Salvo", Worker: "Ambra", Status: enum.StatusInProgress},
	}
}

// --- List ---

func TestOrderList_DefaultPartitionAndSearch(t *testing.T) {
	var gotPartition string
	var gotActor workflow.Actor
	svc := &mockOrderService{
		fetchFn: func(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
			gotPartition, gotActor = partition, actor
			return sampleOrders(), nil
		},
	}
	r := setupOrderRouter(svc)

	rr := doAuthRequest(t, r, "GET", "/orders?q=AMBRO", nil, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotPartition != enum.PartitionActive {
		t.Errorf("partition: %s", gotPartition)
	}
	if gotActor.Username != "ambra" || gotActor.Role != enum.RoleUser {
		t.Errorf("actor: %+v", gotActor)
	}
	if !strings.Contains(rr.Body.String(), "Ámbrosi") || strings.Contains(rr.Body.String(), "Lucia") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestOrderList_OperatorFilter(t *testing.T) {
	svc := &mockOrderService{
		fetchFn: func(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
			return sampleOrders(), nil
		},
	}
	r := setupOrderRouter(svc)

	rr := doAuthRequest(t, r, "GET", "/orders?operatore=franco", nil, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Lucia") || strings.Contains(body, "Mario") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestOrderList_InvalidPartition(t *testing.T) {
	svc := &mockOrderService{
		fetchFn: func(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
			return nil, service.ErrInvalidPartition
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "GET", "/orders?partition=archivio", nil, operatorSession)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestOrderList_Unauthenticated(t *testing.T) {
	r := setupOrderRouter(&mockOrderService{})
	req := httptest.NewRequest("GET", "/orders", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestOrderList_StoreError(t *testing.T) {
	svc := &mockOrderService{
		fetchFn: func(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
			return nil, &service.StoreError{Op: "list orders", Err: errors.New("down")}
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "GET", "/orders", nil, operatorSession)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

// --- Create ---

func TestOrderCreate_Success(t *testing.T) {
	var got order.Order
	svc := &mockOrderService{
		createFn: func(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error) {
			got = o
			o.ID = uuid.New()
			return service.Outcome{Phase: workflow.PhaseApplied, Visible: o.Status, Order: &o}, nil
		},
	}
	r := setupOrderRouter(svc)

	body := map[string]interface{}{
		"cliente":  " Mario Rossi ",
		"telefono": "3331234567",
		"stato":    "da_prendere",
		"consegna": "2025-03-10T00:00:00.000Z",
		"prodotti": `[{"nome":"Candela","quantita":5}]`,
	}
	rr := doAuthRequest(t, r, "POST", "/orders", body, operatorSession)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Customer != "Mario Rossi" {
		t.Errorf("customer: %q", got.Customer)
	}
	if order.FormatDate(got.Delivery) != "2025-03-10" {
		t.Errorf("delivery: %v", got.Delivery)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Candela" || got.Items[0].Quantity != 5 {
		t.Errorf("items: %+v", got.Items)
	}
}

func TestOrderCreate_Pending(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error) {
			c := pending.Confirmation{ID: uuid.New(), Kind: pending.KindCreate, To: enum.StatusDelivered}
			return service.Outcome{Phase: workflow.PhasePending, Visible: enum.StatusDelivered, Pending: &c}, nil
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/orders", map[string]string{"cliente": "a", "telefono": "1", "stato": "consegnato"}, operatorSession)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["phase"] != "pending" || resp["pending"] == nil {
		t.Errorf("unexpected body: %v", resp)
	}
}

func TestOrderCreate_InvalidDate(t *testing.T) {
	r := setupOrderRouter(&mockOrderService{})
	rr := doAuthRequest(t, r, "POST", "/orders", map[string]string{"cliente": "a", "telefono": "1", "consegna": "domani"}, operatorSession)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestOrderCreate_ValidationError(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error) {
			return service.Outcome{}, order.ErrCustomerRequired
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/orders", map[string]string{"cliente": ""}, operatorSession)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := decodeResponse(t, rr)["error"]; got != order.ErrCustomerRequired.Error() {
		t.Errorf("error: %v", got)
	}
}

// --- Update / status ---

func TestOrderUpdate_ForbiddenOnDelivered(t *testing.T) {
	id := uuid.New()
	svc := &mockOrderService{
		updateFn: func(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error) {
			if o.ID != id {
				t.Errorf("id: %s", o.ID)
			}
			return service.Outcome{}, workflow.ErrDeliveredEditForbidden
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "PUT", "/orders/"+id.String(), map[string]string{"cliente": "a", "telefono": "1"}, operatorSession)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestOrderUpdate_InvalidID(t *testing.T) {
	r := setupOrderRouter(&mockOrderService{})
	rr := doAuthRequest(t, r, "PUT", "/orders/not-a-uuid", map[string]string{}, operatorSession)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestOrderUpdateStatus_Applied(t *testing.T) {
	id := uuid.New()
	svc := &mockOrderService{
		changeStatusFn: func(ctx context.Context, actor workflow.Actor, gotID uuid.UUID, to string) (service.Outcome, error) {
			if gotID != id || to != enum.StatusReady {
				t.Errorf("got %s %s", gotID, to)
			}
			o := order.Order{ID: id, Status: to}
			return service.Outcome{Phase: workflow.PhaseApplied, Visible: to, Order: &o}, nil
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "PATCH", "/orders/"+id.String()+"/status", map[string]string{"stato": "pronto"}, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeResponse(t, rr)["visible_status"]; got != "pronto" {
		t.Errorf("visible_status: %v", got)
	}
}

func TestOrderUpdateStatus_RolledBack(t *testing.T) {
	id := uuid.New()
	svc := &mockOrderService{
		changeStatusFn: func(ctx context.Context, actor workflow.Actor, gotID uuid.UUID, to string) (service.Outcome, error) {
			o := order.Order{ID: id, Status: enum.StatusInProgress}
			return service.Outcome{Phase: workflow.PhaseRolledBack, Visible: enum.StatusInProgress, Order: &o},
				&service.StoreError{Op: "update order", Err: errors.New("timeout")}
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "PATCH", "/orders/"+id.String()+"/status", map[string]string{"stato": "pronto"}, operatorSession)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["visible_status"] != enum.StatusInProgress || resp["phase"] != "rolled_back" {
		t.Errorf("unexpected body: %v", resp)
	}
}

func TestOrderUpdateStatus_MissingStatus(t *testing.T) {
	r := setupOrderRouter(&mockOrderService{})
	rr := doAuthRequest(t, r, "PATCH", "/orders/"+uuid.NewString()+"/status", map[string]string{}, operatorSession)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// --- Delete ---

func TestOrderDelete(t *testing.T) {
	svc := &mockOrderService{
		deleteFn: func(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
			return workflow.CanDelete(actor)
		},
	}
	r := setupOrderRouter(svc)

	rr := doAuthRequest(t, r, "DELETE", "/orders/"+uuid.NewString(), nil, operatorSession)
	if rr.Code != http.StatusForbidden {
		t.Errorf("operator: expected 403, got %d", rr.Code)
	}
	rr = doAuthRequest(t, r, "DELETE", "/orders/"+uuid.NewString(), nil, adminSession)
	if rr.Code != http.StatusNoContent {
		t.Errorf("admin: expected 204, got %d", rr.Code)
	}
}

func TestOrderDelete_NotFound(t *testing.T) {
	svc := &mockOrderService{
		deleteFn: func(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
			return service.ErrNotFound
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "DELETE", "/orders/"+uuid.NewString(), nil, adminSession)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

// --- Print ---

func TestOrderPrint(t *testing.T) {
	id := uuid.New()
	svc := &mockOrderService{
		getFn: func(ctx context.Context, actor workflow.Actor, gotID uuid.UUID) (order.Order, error) {
			return order.Order{
				ID: id, Customer: "Mario <Rossi>", Phone: "333", Operator: "Ambra", Worker: "Salvo",
				Status: enum.StatusReady, Delivery: day("2025-03-10"),
				CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
				Items:     []order.LineItem{{Name: "Candela", Quantity: 5, Note: "rosse"}},
			}, nil
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "GET", "/orders/"+id.String()+"/print", nil, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: %s", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Stampa Ordine - Mario &lt;Rossi&gt;",
		"Ceralandia - Riepilogo Ordine",
		"10/03/2025",
		"01/03/2025, 09:30:00",
		"<td>Candela</td><td>5</td><td>rosse</td>",
		"window.print()",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in body", want)
		}
	}
}

// --- Export / import ---

func TestOrderExport(t *testing.T) {
	svc := &mockOrderService{
		fetchFn: func(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
			if partition != enum.PartitionDelivered {
				t.Errorf("partition: %s", partition)
			}
			return sampleOrders()[:1], nil
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "GET", "/orders/export?partition=delivered", nil, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("content type: %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "ordini_delivered_") {
		t.Errorf("content disposition: %s", cd)
	}
	if !strings.HasPrefix(rr.Body.String(), "\ufeff\"id\",\"cliente\"") {
		t.Errorf("unexpected csv: %q", rr.Body.String())
	}
}

const importCSV = "id,cliente,telefono,operatore,lavoratore,stato,consegna_iso,prodotti_json\n" +
	`,"Mario Rossi","3331234567","Ambra","Salvo","","2025-03-10T00:00:00.000Z","[{""nome"":""Candela"",""quantita"":5,""note"":""""}]"`

func TestOrderImport_RawBody(t *testing.T) {
	var gotRows []order.Order
	svc := &mockOrderService{
		prepareImportFn: func(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error) {
			gotRows = rows
			c := pending.Confirmation{ID: uuid.New(), Kind: pending.KindImport, Partition: partition}
			return service.Outcome{Phase: workflow.PhasePending, Pending: &c}, nil
		},
	}
	r := setupOrderRouter(svc)

	token, _ := auth.GenerateToken(testJWTSecret, adminSession.Username, adminSession.Role, adminSession.Source)
	req := httptest.NewRequest("POST", "/orders/import?partition=delivered", strings.NewReader(importCSV))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(gotRows) != 1 || gotRows[0].Customer != "Mario Rossi" {
		t.Fatalf("rows: %+v", gotRows)
	}
	// Delivered import defaults a blank status to consegnato.
	if gotRows[0].Status != enum.StatusDelivered {
		t.Errorf("status: %s", gotRows[0].Status)
	}
}

func TestOrderImport_Multipart(t *testing.T) {
	var gotRows []order.Order
	svc := &mockOrderService{
		prepareImportFn: func(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error) {
			gotRows = rows
			return service.Outcome{Phase: workflow.PhasePending, Pending: &pending.Confirmation{ID: uuid.New()}}, nil
		},
	}
	r := setupOrderRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "ordini.csv")
	fw.Write([]byte(importCSV))
	mw.Close()

	token, _ := auth.GenerateToken(testJWTSecret, adminSession.Username, adminSession.Role, adminSession.Source)
	req := httptest.NewRequest("POST", "/orders/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(gotRows) != 1 || gotRows[0].Status != enum.StatusAwaitingPickup {
		t.Errorf("rows: %+v", gotRows)
	}
	if len(gotRows[0].Items) != 1 || gotRows[0].Items[0].Quantity != 5 {
		t.Errorf("items: %+v", gotRows[0].Items)
	}
}

func TestOrderImport_Forbidden(t *testing.T) {
	svc := &mockOrderService{
		prepareImportFn: func(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error) {
			return service.Outcome{}, workflow.CanImport(actor)
		},
	}
	r := setupOrderRouter(svc)

	token, _ := auth.GenerateToken(testJWTSecret, operatorSession.Username, operatorSession.Role, operatorSession.Source)
	req := httptest.NewRequest("POST", "/orders/import", strings.NewReader(importCSV))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestOrderImport_UnknownStatusKeepsRow(t *testing.T) {
	var gotRows []order.Order
	svc := &mockOrderService{
		prepareImportFn: func(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error) {
			gotRows = rows
			return service.Outcome{Phase: workflow.PhasePending, Pending: &pending.Confirmation{ID: uuid.New()}}, nil
		},
	}
	r := setupOrderRouter(svc)
	body := "cliente,telefono,stato\nMario,333,pronto\nLucia,334,spedito\n"

	token, _ := auth.GenerateToken(testJWTSecret, adminSession.Username, adminSession.Role, adminSession.Source)
	req := httptest.NewRequest("POST", "/orders/import", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(gotRows) != 2 {
		t.Fatalf("expected both rows, got %+v", gotRows)
	}
	if gotRows[0].Status != enum.StatusReady || gotRows[1].Status != enum.StatusAwaitingPickup {
		t.Errorf("statuses: %s, %s", gotRows[0].Status, gotRows[1].Status)
	}
}

// --- Confirmations ---

func TestConfirmation_Confirm(t *testing.T) {
	id := uuid.New()
	svc := &mockOrderService{
		confirmFn: func(ctx context.Context, actor workflow.Actor, gotID uuid.UUID) (service.Outcome, error) {
			if gotID != id {
				t.Errorf("id: %s", gotID)
			}
			return service.Outcome{Phase: workflow.PhaseApplied, Visible: enum.StatusDelivered}, nil
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/confirmations/"+id.String()+"/confirm", nil, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decodeResponse(t, rr)["visible_status"]; got != enum.StatusDelivered {
		t.Errorf("visible_status: %v", got)
	}
}

func TestConfirmation_Expired(t *testing.T) {
	svc := &mockOrderService{
		confirmFn: func(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error) {
			return service.Outcome{}, pending.ErrNotFound
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/confirmations/"+uuid.NewString()+"/confirm", nil, operatorSession)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestConfirmation_CancelOtherSession(t *testing.T) {
	svc := &mockOrderService{
		cancelFn: func(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error) {
			return service.Outcome{}, service.ErrNotRequester
		},
	}
	r := setupOrderRouter(svc)
	other := session.Session{Username: "salvo", Role: enum.RoleUser, Source: session.SourceLocal}
	rr := doAuthRequest(t, r, "POST", "/confirmations/"+uuid.NewString()+"/cancel", nil, other)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestConfirmation_Cancel(t *testing.T) {
	svc := &mockOrderService{
		cancelFn: func(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error) {
			return service.Outcome{Phase: workflow.PhaseCancelled, Visible: enum.StatusReady}, nil
		},
	}
	r := setupOrderRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/confirmations/"+uuid.NewString()+"/cancel", nil, operatorSession)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["phase"] != "cancelled" || resp["visible_status"] != enum.StatusReady {
		t.Errorf("unexpected body: %v", resp)
	}
}
