// @title           vidshare API
// @version         1.0
// @description     Anonymous likes, ad click tracking and catalog administration for the vidshare video server.
// @BasePath        /api
package api
