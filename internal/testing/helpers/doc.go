// Package helpers provides HTTP test utilities for the dashboard API.
//
// # Requests
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/guild/42/module").
//	    WithToken("tok").
//	    WithBody(model.Module{ID: "welcome", Enabled: true}).
//	    Do(router)
//
// # Assertions
//
//	helpers.AssertStatus(t, rr, http.StatusOK)
//	helpers.AssertProblemDetails(t, rr, http.StatusForbidden, model.ErrCodeCannotManage)
//	helpers.AssertValidationError(t, rr, "id")
package helpers
