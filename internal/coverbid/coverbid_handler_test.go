package coverbid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-shiftly/internal/coverbid"
	coverbiderrors "go-shiftly/internal/coverbid/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn  func(ctx context.Context, companyID, actorID string, isManager bool, req coverbid.CreateBidRequest) (coverbid.BidResponse, error)
	listFn    func(ctx context.Context, companyID, actorID string, isManager bool, q coverbid.ListBidsQuery) ([]coverbid.BidResponse, error)
	getByIDFn func(ctx context.Context, companyID string, id string) (coverbid.BidResponse, error)
	approveFn func(ctx context.Context, companyID, actorID string, isManager bool, id string) (coverbid.BidResponse, error)
	rejectFn  func(ctx context.Context, companyID, actorID string, isManager bool, id string) (coverbid.BidResponse, error)
}

func (f *fakeService) Create(ctx context.Context, companyID, actorID string, isManager bool, req coverbid.CreateBidRequest) (coverbid.BidResponse, error) {
	return f.createFn(ctx, companyID, actorID, isManager, req)
}
func (f *fakeService) List(ctx context.Context, companyID, actorID string, isManager bool, q coverbid.ListBidsQuery) ([]coverbid.BidResponse, error) {
	return f.listFn(ctx, companyID, actorID, isManager, q)
}
func (f *fakeService) GetByID(ctx context.Context, companyID string, id string) (coverbid.BidResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}
func (f *fakeService) Approve(ctx context.Context, companyID, actorID string, isManager bool, id string) (coverbid.BidResponse, error) {
	return f.approveFn(ctx, companyID, actorID, isManager, id)
}
func (f *fakeService) Reject(ctx context.Context, companyID, actorID string, isManager bool, id string) (coverbid.BidResponse, error) {
	return f.rejectFn(ctx, companyID, actorID, isManager, id)
}

func newTestContext(w *httptest.ResponseRecorder, method, path, body string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	if body == "" {
		c.Request = httptest.NewRequest(method, path, nil)
	} else {
		c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c
}

func TestCoverBidHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, cid, aid string, isManager bool, req coverbid.CreateBidRequest) (coverbid.BidResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, requestID, req.CoverRequestID)
				return coverbid.BidResponse{ID: uuid.New().String(), CoverRequestID: req.CoverRequestID, BidderID: aid, Status: coverbid.StatusPending}, nil
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodPost, "/cover-bids", `{"cover_request_id":"`+requestID+`"}`)
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":true`)
		assert.Contains(t, w.Body.String(), requestID)
	})

	t.Run("negative missing request id never reaches the service", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, cid, aid string, isManager bool, req coverbid.CreateBidRequest) (coverbid.BidResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return coverbid.BidResponse{}, nil
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodPost, "/cover-bids", `{}`)
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("negative self bid maps to conflict", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, cid, aid string, isManager bool, req coverbid.CreateBidRequest) (coverbid.BidResponse, error) {
				return coverbid.BidResponse{}, coverbiderrors.ErrSelfBid
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodPost, "/cover-bids", `{"cover_request_id":"`+requestID+`"}`)
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
		assert.Contains(t, w.Body.String(), "your own cover request")
	})
}

func TestCoverBidHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success request filter reaches the service", func(t *testing.T) {
		svc := &fakeService{
			listFn: func(ctx context.Context, cid, aid string, isManager bool, q coverbid.ListBidsQuery) ([]coverbid.BidResponse, error) {
				assert.Equal(t, requestID, q.CoverRequestID)
				return []coverbid.BidResponse{{ID: uuid.New().String(), CoverRequestID: requestID}}, nil
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodGet, "/cover-bids?cover_request_id="+requestID, "")
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), requestID)
	})

	t.Run("negative malformed request filter rejected at binding", func(t *testing.T) {
		svc := &fakeService{
			listFn: func(ctx context.Context, cid, aid string, isManager bool, q coverbid.ListBidsQuery) ([]coverbid.BidResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return nil, nil
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodGet, "/cover-bids?cover_request_id=not-a-uuid", "")
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})
}

func TestCoverBidHandler_Decisions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	bidID := uuid.New().String()

	t.Run("approve plumbs the id param", func(t *testing.T) {
		svc := &fakeService{
			approveFn: func(ctx context.Context, cid, aid string, isManager bool, id string) (coverbid.BidResponse, error) {
				assert.Equal(t, bidID, id)
				assert.True(t, isManager)
				return coverbid.BidResponse{ID: id, Status: coverbid.StatusApproved}, nil
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodPost, "/cover-bids/"+bidID+"/approve", "")
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		c.Set("is_manager", true)
		c.Params = gin.Params{{Key: "id", Value: bidID}}
		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), coverbid.StatusApproved)
	})

	t.Run("negative approve on a resolved request", func(t *testing.T) {
		svc := &fakeService{
			approveFn: func(ctx context.Context, cid, aid string, isManager bool, id string) (coverbid.BidResponse, error) {
				return coverbid.BidResponse{}, coverbiderrors.ErrRequestNotOpen
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodPost, "/cover-bids/"+bidID+"/approve", "")
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		c.Set("is_manager", true)
		c.Params = gin.Params{{Key: "id", Value: bidID}}
		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "no longer pending")
	})

	t.Run("negative reject by non manager is forbidden", func(t *testing.T) {
		svc := &fakeService{
			rejectFn: func(ctx context.Context, cid, aid string, isManager bool, id string) (coverbid.BidResponse, error) {
				return coverbid.BidResponse{}, coverbiderrors.ErrManagerOnly
			},
		}
		h := coverbid.NewHandler(svc)

		w := httptest.NewRecorder()
		c := newTestContext(w, http.MethodPost, "/cover-bids/"+bidID+"/reject", "")
		c.Set("company_id", companyID)
		c.Set("user_id", actorID)
		c.Params = gin.Params{{Key: "id", Value: bidID}}
		h.Reject(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "only managers")
	})
}
