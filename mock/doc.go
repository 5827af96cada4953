/*
Package mock provides an in-memory HTTP transport for testing code built on
the D1 client.

A MockClient can be passed as d1.Config.HTTPClient. Tests configure responses
per method and URL with On, fall back to a default empty-success envelope, and
inspect the recorded Calls to assert exactly what the client sent.
*/
package mock
