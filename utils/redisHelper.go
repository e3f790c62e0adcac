package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// get type name of struct
func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

// Quote snapshots and computed prices go stale as vendor feeds refresh;
// configurations are invalidated explicitly on edit.
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"VendorQuote": true,
	}
	return expirableTypes[typeName]
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, businessId string, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + businessId + ":" + fmt.Sprint(id)

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// store a list keyed per tenant (+ optional scope id, e.g. product id)
func StoreRedisList[T any](obj any, businessId string, scopeId int) error {
	typeName := GetTypeName[T]()
	key := listKey(typeName, businessId, scopeId)

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// get from redis
// returns nil if does not exist
func RetrieveRedis[T any](businessId string, id int) (*T, error) {
	var result *T
	key := GetTypeName[T]() + ":" + businessId + ":" + fmt.Sprint(id)
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

func RetrieveRedisList[T any](businessId string, scopeId int) ([]*T, error) {
	key := listKey(GetTypeName[T](), businessId, scopeId)

	var result []*T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

func RemoveRedis[T any](businessId string, id int) error {
	key := GetTypeName[T]() + ":" + businessId + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}

func RemoveRedisList[T any](businessId string, scopeId int) error {
	return config.RemoveRedisKey(listKey(GetTypeName[T](), businessId, scopeId))
}

func listKey(typeName string, businessId string, scopeId int) string {
	if scopeId == 0 {
		return typeName + "List:" + businessId
	}
	return typeName + "List:" + businessId + ":" + fmt.Sprint(scopeId)
}
