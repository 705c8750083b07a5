package web

import (
	"context"

	gin "github.com/gin-gonic/gin"

	auth "github.com/atmolab/gascalc/pkg/middleware/auth"
	views "github.com/atmolab/gascalc/pkg/web/views"
	gasViews "github.com/atmolab/gascalc/pkg/web/views/gas"
	orderViews "github.com/atmolab/gascalc/pkg/web/views/order"
	userViews "github.com/atmolab/gascalc/pkg/web/views/user"
)

func InstallURL(_ context.Context, g *gin.Engine) {
	gasHandle := gasViews.NewHandle()
	orderHandle := orderViews.NewHandle()
	userHandle := userViews.NewHandle()

	// Worker results callback, guarded by the shared token instead of a user
	// session.
	g.POST("/async-results", asyncToken(), orderHandle.Reconcile)

	api := g.Group("/api")
	api.GET("/health", views.Health)

	{
		users := api.Group("/users")
		users.POST("/register", userHandle.Register)
		users.POST("/login", userHandle.Login)
		users.POST("/logout", auth.Auth(), userHandle.Logout)
		users.GET("/me", auth.Auth(), userHandle.Me)
	}

	{
		gases := api.Group("/gases")
		gases.GET("", gasHandle.List)
		gases.GET("/:id", gasHandle.Get)
	}

	{
		cart := api.Group("/cart", auth.Auth())
		cart.GET("", orderHandle.Cart)
		cart.GET("/icon", orderHandle.CartSummary)
		cart.POST("/gases/:gasId", orderHandle.AddToCart)
		cart.DELETE("/gases/:gasId", orderHandle.RemoveFromCart)
	}

	{
		orders := api.Group("/orders", auth.Auth())
		orders.GET("", orderHandle.List)
		orders.GET("/:id", orderHandle.Get)
		orders.PUT("/:id", orderHandle.Update)
		orders.DELETE("/:id", orderHandle.Delete)
		orders.PUT("/:id/form", orderHandle.Form)
		orders.PUT("/:id/approve", auth.RequireModerator(), orderHandle.Approve)
		orders.PUT("/:id/reject", auth.RequireModerator(), orderHandle.Reject)
		orders.GET("/:id/calculate-temperature", orderHandle.Preview)

		orders.POST("/:id/gases", orderHandle.AddLine)
		orders.GET("/:id/gases/:gasId", orderHandle.GetLine)
		orders.PUT("/:id/gases/:gasId", orderHandle.UpdateLine)
		orders.DELETE("/:id/gases/:gasId", orderHandle.RemoveLine)
	}
}
