// Copyright 2020, Square, Inc.

// Package api provides controllers for each api endpoint. Controllers are
// "dumb wiring"; there is little to no application logic in this package.
// Controllers call and coordinate other packages to satisfy the api
// endpoint.
package api

import (
	"io/ioutil"
	"net/http"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/square/imageflow/node"
	"github.com/square/imageflow/pipeline"
	"github.com/square/imageflow/runner"
)

const (
	API_ROOT = "/api/v1/"
)

// API provides controllers for endpoints it registers with its echo web
// server. Each request builds and runs its own graph, so concurrent
// requests never share a graph; only the result repo is shared.
type API struct {
	factory node.Factory
	repo    runner.Repo
	// --
	echo *echo.Echo
}

// NewAPI creates a new API struct. It initializes an echo web server within
// the struct, and registers all of the API's routes with it.
func NewAPI(factory node.Factory, repo runner.Repo) *API {
	api := &API{
		factory: factory,
		repo:    repo,
		// --
		echo: echo.New(),
	}

	// //////////////////////////////////////////////////////////////////////
	// Routes
	// //////////////////////////////////////////////////////////////////////
	// Run a pipeline spec and return its result.
	api.echo.POST(API_ROOT+"pipelines", api.runPipelineHandler)
	// Get the result of a past run.
	api.echo.GET(API_ROOT+"pipelines/:runId", api.getResultHandler)

	api.echo.GET(API_ROOT+"status", api.statusHandler)

	// //////////////////////////////////////////////////////////////////////
	// Middleware
	// //////////////////////////////////////////////////////////////////////
	api.echo.Use(middleware.Recover())
	api.echo.Use(middleware.Logger())

	return api
}

// Run starts the API server on addr. It blocks until the server stops.
func (api *API) Run(addr string) error {
	return api.echo.Start(addr)
}

// ServeHTTP makes the API an http.Handler, which tests use to drive
// requests without a listener.
func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.echo.ServeHTTP(w, r)
}

// POST <API_ROOT>/pipelines
// Parse the YAML pipeline in the request body, build its graph, run it, and
// return the run result. The result is also stored in the repo.
func (api *API) runPipelineHandler(c echo.Context) error {
	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	spec, err := pipeline.Parse(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	g, _, err := pipeline.Build(spec, api.factory)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r := runner.NewRunner(g)
	result, err := r.Run()
	if err != nil {
		// Structural error: no valid processing order. The pipeline is the
		// client's input, so this is still a client error.
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := api.repo.Add(result); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// GET <API_ROOT>/pipelines/:runId
// Get the stored result of a past run.
func (api *API) getResultHandler(c echo.Context) error {
	runID := c.Param("runId")
	result, err := api.repo.Get(runID)
	if err != nil {
		if err == runner.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// GET <API_ROOT>/status
// Report how many results the repo holds.
func (api *API) statusHandler(c echo.Context) error {
	status := map[string]interface{}{
		"runs": api.repo.Count(),
	}
	return c.JSON(http.StatusOK, status)
}
