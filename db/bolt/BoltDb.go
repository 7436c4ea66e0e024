package bolt

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/keywarden/keywarden/db"
	"go.etcd.io/bbolt"
)

type BoltDb struct {
	Filename string
	db       *bbolt.DB
}

func CreateBoltDb(filename string) *BoltDb {
	return &BoltDb{Filename: filename}
}

func (d *BoltDb) Connect() error {
	boltDb, err := bbolt.Open(d.Filename, 0600, nil)
	if err != nil {
		return err
	}

	d.db = boltDb
	return nil
}

func (d *BoltDb) Close() error {
	return d.db.Close()
}

// Migrate is a no-op for bolt: buckets are created on first write.
func (d *BoltDb) Migrate() error {
	return nil
}

func makeObjectId(id int) []byte {
	return []byte(fmt.Sprintf("%010d", id))
}

func setObjectID(obj any, id int) {
	reflect.ValueOf(obj).Elem().FieldByName("ID").SetInt(int64(id))
}

// createObject assigns the next sequence number to the object's ID field
// and stores it under the props bucket. Returns the stored object.
func (d *BoltDb) createObject(props db.ObjectProps, obj any) (any, error) {
	var res any

	err := d.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(props.TableName))
		if err != nil {
			return err
		}

		id, err := b.NextSequence()
		if err != nil {
			return err
		}

		v := reflect.New(props.Type)
		v.Elem().Set(reflect.ValueOf(obj))
		v.Elem().FieldByName("ID").SetInt(int64(id))

		data, err := json.Marshal(v.Interface())
		if err != nil {
			return err
		}

		if err = b.Put(makeObjectId(int(id)), data); err != nil {
			return err
		}

		res = v.Elem().Interface()
		return nil
	})

	return res, err
}

func (d *BoltDb) getObject(props db.ObjectProps, objectID int, obj any) error {
	return d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(props.TableName))
		if b == nil {
			return db.ErrNotFound
		}

		data := b.Get(makeObjectId(objectID))
		if data == nil {
			return db.ErrNotFound
		}

		return json.Unmarshal(data, obj)
	})
}

// getObjects unmarshals every object in the props bucket into the slice
// pointed to by objects, keeping only those accepted by filter (nil keeps
// all). Objects come back in key order, which is creation order.
func (d *BoltDb) getObjects(props db.ObjectProps, filter func(any) bool, objects any) error {
	objectsValue := reflect.ValueOf(objects).Elem()
	objectsValue.Set(reflect.MakeSlice(objectsValue.Type(), 0, 0))

	return d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(props.TableName))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			obj := reflect.New(props.Type)
			if err := json.Unmarshal(v, obj.Interface()); err != nil {
				return err
			}

			if filter == nil || filter(obj.Elem().Interface()) {
				objectsValue.Set(reflect.Append(objectsValue, obj.Elem()))
			}

			return nil
		})
	})
}

func (d *BoltDb) updateObject(props db.ObjectProps, obj any) error {
	objectID := int(reflect.ValueOf(obj).FieldByName("ID").Int())

	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(props.TableName))
		if b == nil {
			return db.ErrNotFound
		}

		key := makeObjectId(objectID)

		if b.Get(key) == nil {
			return db.ErrNotFound
		}

		data, err := json.Marshal(obj)
		if err != nil {
			return err
		}

		return b.Put(key, data)
	})
}

func (d *BoltDb) deleteObject(props db.ObjectProps, objectID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(props.TableName))
		if b == nil {
			return db.ErrNotFound
		}

		key := makeObjectId(objectID)

		if b.Get(key) == nil {
			return db.ErrNotFound
		}

		return b.Delete(key)
	})
}
